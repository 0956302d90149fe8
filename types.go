package main

import (
	"os"
	"time"

	"github.com/branila/lzwdecode/lzw"

	"github.com/imdario/mergo"
	"github.com/nuclio/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	EnvelopeNone = "none"
	EnvelopeAuto = "auto"
	EnvelopeZstd = "zstd"
	EnvelopeGzip = "gzip"

	FormatRaw  = "raw"
	FormatJSON = "json"
)

var (
	supportedEnvelopes = []string{EnvelopeNone, EnvelopeAuto, EnvelopeZstd, EnvelopeGzip}
	supportedFormats   = []string{FormatRaw, FormatJSON}
	supportedPaddings  = []string{"low", "high"}
)

// Websocket stream configuration
type StreamConfig struct {
	URL              string        `yaml:"url"`
	InitMessage      string        `yaml:"initMessage"`
	Format           string        `yaml:"format"`
	HandshakeTimeout time.Duration `yaml:"handshakeTimeout"`
	ReadTimeout      time.Duration `yaml:"readTimeout"`
	WriteTimeout     time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdownTimeout"`
}

// Application configuration
type Config struct {
	OutputSuffix         string        `yaml:"outputSuffix"`
	Padding              string        `yaml:"padding"`
	Envelope             string        `yaml:"envelope"`
	Jobs                 int           `yaml:"jobs"`
	HTTPTimeout          time.Duration `yaml:"httpTimeout"`
	MetricsListenAddress string        `yaml:"metricsListenAddress"`
	Stream               StreamConfig  `yaml:"stream"`
}

func DefaultConfig() *Config {
	return &Config{
		OutputSuffix: ".decompressed",
		Padding:      "low",
		Envelope:     EnvelopeNone,
		Jobs:         4,
		HTTPTimeout:  10 * time.Second,
		Stream: StreamConfig{
			Format:           FormatRaw,
			HandshakeTimeout: 10 * time.Second,
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     10 * time.Second,
			ShutdownTimeout:  5 * time.Second,
		},
	}
}

// Reads a YAML configuration file, filling anything it leaves out from the defaults
func LoadConfig(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read configuration file %s", path)
	}

	config := &Config{}
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse configuration file %s", path)
	}

	if err := mergo.Merge(config, DefaultConfig()); err != nil {
		return nil, errors.Wrap(err, "Failed to merge configuration defaults")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid configuration")
	}

	return config, nil
}

// Checks enumerated fields and limits
func (c *Config) Validate() error {
	if !lo.Contains(supportedPaddings, c.Padding) {
		return errors.Errorf("Unsupported padding %q, must be one of %v", c.Padding, supportedPaddings)
	}

	if !lo.Contains(supportedEnvelopes, c.Envelope) {
		return errors.Errorf("Unsupported envelope %q, must be one of %v", c.Envelope, supportedEnvelopes)
	}

	if !lo.Contains(supportedFormats, c.Stream.Format) {
		return errors.Errorf("Unsupported stream format %q, must be one of %v", c.Stream.Format, supportedFormats)
	}

	if c.Jobs < 1 {
		return errors.Errorf("Jobs must be at least 1, got %d", c.Jobs)
	}

	if c.OutputSuffix == "" {
		return errors.New("Output suffix must not be empty")
	}

	return nil
}

// Decoder options derived from the configuration
func (c *Config) DecoderPadding() lzw.Padding {
	padding, err := lzw.ParsePadding(c.Padding)
	if err != nil {
		return lzw.PadLow
	}
	return padding
}
