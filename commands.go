package main

import (
	"context"
	"fmt"
	"os"

	"github.com/branila/lzwdecode/lzw"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	nucliozap "github.com/nuclio/zap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

type RootCommandeer struct {
	loggerInstance logger.Logger
	cmd            *cobra.Command
	verbose        bool
	configPath     string
	config         *Config
}

func NewRootCommandeer() *RootCommandeer {
	commandeer := &RootCommandeer{}

	cmd := &cobra.Command{
		Use:           "lzwdecode [command]",
		Short:         "Decode fixed 12-bit LZW streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&commandeer.verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().StringVarP(&commandeer.configPath, "config", "c", os.Getenv("LZWDECODE_CONFIG"), "Path to a YAML configuration file")

	cmd.AddCommand(
		newDecompressCommandeer(commandeer).cmd,
		newStreamCommandeer(commandeer).cmd,
		newVersionCommandeer(commandeer).cmd,
	)

	commandeer.cmd = cmd

	return commandeer
}

// Execute runs the command selected by os.Args
func (rc *RootCommandeer) Execute(ctx context.Context) error {
	return rc.cmd.ExecuteContext(ctx)
}

// GetCmd returns the underlying cobra command
func (rc *RootCommandeer) GetCmd() *cobra.Command {
	return rc.cmd
}

func (rc *RootCommandeer) initialize() error {
	var err error

	rc.loggerInstance, err = rc.createLogger()
	if err != nil {
		return errors.Wrap(err, "Failed to create logger")
	}

	if rc.configPath == "" {
		rc.config = DefaultConfig()
	} else {
		rc.config, err = LoadConfig(rc.configPath)
		if err != nil {
			return errors.Wrap(err, "Failed to load configuration")
		}
	}

	rc.loggerInstance.DebugWith("Configuration loaded", "path", rc.configPath, "config", rc.config)

	return nil
}

func (rc *RootCommandeer) createLogger() (logger.Logger, error) {
	loggerLevel := nucliozap.InfoLevel
	if rc.verbose {
		loggerLevel = nucliozap.DebugLevel
	}

	// stdout may carry decoded bytes, so logs always go to stderr
	return nucliozap.NewNuclioZapCmd("lzwdecode", loggerLevel, os.Stderr)
}

type decompressCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	output         string
	toStdout       bool
	suffix         string
	padding        string
	envelope       string
	jobs           int
}

func newDecompressCommandeer(rootCommandeer *RootCommandeer) *decompressCommandeer {
	commandeer := &decompressCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:     "decompress input [input...]",
		Aliases: []string{"d"},
		Short:   "Decode LZW files or URLs",
		Long: `Decode each input into <input>.decompressed (or the configured suffix).
Inputs are local paths or http(s) URLs; URLs are written to the current directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("Decompress requires at least one input")
			}

			if (commandeer.output != "" || commandeer.toStdout) && len(args) > 1 {
				return errors.New("--output and --stdout accept a single input")
			}

			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			config := rootCommandeer.config
			commandeer.applyFlags(config)
			if err := config.Validate(); err != nil {
				return errors.Wrap(err, "Invalid flags")
			}

			decompressor := NewDecompressor(rootCommandeer.loggerInstance, config, NewMetrics())

			targets := lo.Map(args, func(input string, _ int) Target {
				return Target{Input: input, Output: commandeer.outputFor(decompressor, input)}
			})

			results := decompressor.DecompressAll(cmd.Context(), targets, cmd.OutOrStdout())

			// keep stdout clean when it carries the decoded bytes
			if commandeer.toStdout {
				DisplaySummary(cmd.ErrOrStderr(), results)
			} else {
				DisplaySummary(cmd.OutOrStdout(), results)
			}

			failed := lo.Filter(results, func(result Result, _ int) bool {
				return result.Err != nil
			})
			if len(failed) > 0 {
				return errors.Errorf("Failed to decompress %d of %d inputs", len(failed), len(results))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&commandeer.output, "output", "o", "", "Output path (single input only)")
	cmd.Flags().BoolVar(&commandeer.toStdout, "stdout", false, "Write decoded bytes to stdout (single input only)")
	cmd.Flags().StringVarP(&commandeer.suffix, "suffix", "s", "", "Suffix appended to input names (default \".decompressed\")")
	cmd.Flags().StringVarP(&commandeer.padding, "padding", "p", "", "Final code padding - \"low\" or \"high\" (right-aligned final code)")
	cmd.Flags().StringVarP(&commandeer.envelope, "envelope", "e", "", "Outer compression - \"none\", \"auto\", \"zstd\" or \"gzip\"")
	cmd.Flags().IntVarP(&commandeer.jobs, "jobs", "j", 0, "Number of inputs decoded in parallel")

	commandeer.cmd = cmd

	return commandeer
}

func (dc *decompressCommandeer) applyFlags(config *Config) {
	flags := dc.cmd.Flags()

	if flags.Changed("suffix") {
		config.OutputSuffix = dc.suffix
	}
	if flags.Changed("padding") {
		config.Padding = dc.padding
	}
	if flags.Changed("envelope") {
		config.Envelope = dc.envelope
	}
	if flags.Changed("jobs") {
		config.Jobs = dc.jobs
	}
}

func (dc *decompressCommandeer) outputFor(decompressor *Decompressor, input string) string {
	switch {
	case dc.toStdout:
		return StdoutOutput
	case dc.output != "":
		return dc.output
	default:
		return decompressor.OutputPath(input)
	}
}

type streamCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
	url            string
	initMessage    string
	format         string
	padding        string
	metricsListen  string
}

func newStreamCommandeer(rootCommandeer *RootCommandeer) *streamCommandeer {
	commandeer := &streamCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Decode LZW frames received over a WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rootCommandeer.initialize(); err != nil {
				return errors.Wrap(err, "Failed to initialize root")
			}

			config := rootCommandeer.config
			commandeer.applyFlags(config)
			if err := config.Validate(); err != nil {
				return errors.Wrap(err, "Invalid flags")
			}

			if config.Stream.URL == "" {
				return errors.New("Stream requires a URL (--url or stream.url)")
			}

			client := NewClient(rootCommandeer.loggerInstance, config, cmd.OutOrStdout(), cmd.ErrOrStderr())

			return client.Run()
		},
	}

	cmd.Flags().StringVarP(&commandeer.url, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	cmd.Flags().StringVar(&commandeer.initMessage, "init-message", "", "Text message sent after connecting")
	cmd.Flags().StringVarP(&commandeer.format, "format", "f", "", "Frame output format - \"raw\" or \"json\"")
	cmd.Flags().StringVarP(&commandeer.padding, "padding", "p", "", "Final code padding - \"low\" or \"high\"")
	cmd.Flags().StringVar(&commandeer.metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	commandeer.cmd = cmd

	return commandeer
}

func (sc *streamCommandeer) applyFlags(config *Config) {
	flags := sc.cmd.Flags()

	if flags.Changed("url") {
		config.Stream.URL = sc.url
	}
	if flags.Changed("init-message") {
		config.Stream.InitMessage = sc.initMessage
	}
	if flags.Changed("format") {
		config.Stream.Format = sc.format
	}
	if flags.Changed("padding") {
		config.Padding = sc.padding
	}
	if flags.Changed("metrics-listen") {
		config.MetricsListenAddress = sc.metricsListen
	}
}

type versionCommandeer struct {
	cmd            *cobra.Command
	rootCommandeer *RootCommandeer
}

func newVersionCommandeer(rootCommandeer *RootCommandeer) *versionCommandeer {
	commandeer := &versionCommandeer{
		rootCommandeer: rootCommandeer,
	}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "lzwdecode %s (code width %d, %d entries)\n",
				version,
				lzw.CodeWidth,
				lzw.MaxCodes)
			return err
		},
	}

	commandeer.cmd = cmd

	return commandeer
}
