package main

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/branila/lzwdecode/lzw"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
	"golang.org/x/sync/errgroup"
)

// Output name that sends decoded bytes to the command's stdout
const StdoutOutput = "-"

// One input and where its decoded bytes go
type Target struct {
	Input  string
	Output string
}

// Outcome of decoding one target
type Result struct {
	Target
	Envelope string
	Stats    lzw.Stats
	Duration time.Duration
	Err      error
}

// Decodes files and URLs, one session per input
type Decompressor struct {
	config  *Config
	logger  logger.Logger
	decoder *lzw.Decoder
	fetcher *Fetcher
	metrics *Metrics
}

// Creates a new decompressor with all dependencies
func NewDecompressor(parentLogger logger.Logger, config *Config, metrics *Metrics) *Decompressor {
	loggerInstance := parentLogger.GetChild("decompressor")

	return &Decompressor{
		config: config,
		logger: loggerInstance,
		decoder: lzw.NewDecoder(
			lzw.WithLogger(loggerInstance),
			lzw.WithPadding(config.DecoderPadding()),
		),
		fetcher: NewFetcher(loggerInstance, config),
		metrics: metrics,
	}
}

// Derives the output path of an input: the input name plus the configured
// suffix, or the last URL path element for remote inputs
func (d *Decompressor) OutputPath(input string) string {
	if !IsRemoteInput(input) {
		return input + d.config.OutputSuffix
	}

	name := "download"
	if parsed, err := url.Parse(input); err == nil {
		if base := path.Base(parsed.Path); base != "." && base != "/" {
			name = base
		}
	}

	return name + d.config.OutputSuffix
}

// Decodes every target, at most config.Jobs at a time. Failures are reported
// per target and never stop the other sessions.
func (d *Decompressor) DecompressAll(ctx context.Context, targets []Target, stdout io.Writer) []Result {
	results := make([]Result, len(targets))

	var group errgroup.Group
	group.SetLimit(d.config.Jobs)

	for i, target := range targets {
		i, target := i, target
		group.Go(func() error {
			results[i] = d.Decompress(ctx, target, stdout)
			return nil
		})
	}

	group.Wait() // nolint: errcheck

	return results
}

// Decodes a single target
func (d *Decompressor) Decompress(ctx context.Context, target Target, stdout io.Writer) (result Result) {
	start := time.Now()
	result.Target = target

	defer func() {
		result.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		result.Err = errors.Wrap(err, "Cancelled before decoding started")
		return result
	}

	reader, size, closeInput, err := d.openInput(ctx, target.Input)
	if err != nil {
		result.Err = err
		return result
	}
	defer closeInput()

	d.logger.DebugWith("Input opened", "input", target.Input, "size", size)

	source, envelope, err := openEnvelope(reader, size, d.config.Envelope)
	if err != nil {
		result.Err = err
		return result
	}
	result.Envelope = envelope

	output := stdout
	if target.Output != StdoutOutput {
		file, err := os.Create(target.Output)
		if err != nil {
			result.Err = errors.Wrapf(err, "Failed to create output file %s", target.Output)
			return result
		}
		defer func() {
			if err := file.Close(); err != nil && result.Err == nil {
				result.Err = errors.Wrapf(err, "Failed to close output file %s", target.Output)
			}
		}()
		output = file
	}

	result.Stats, result.Err = d.decoder.DecodeTo(source, output)
	if d.metrics != nil {
		d.metrics.Observe(result.Stats, result.Err)
	}

	if result.Err != nil {
		d.logger.WarnWith("Failed to decode input",
			"input", target.Input,
			"output", target.Output,
			"written", result.Stats.BytesWritten,
			"err", result.Err.Error())
		return result
	}

	d.logger.InfoWith("Decoded input",
		"input", target.Input,
		"output", target.Output,
		"envelope", envelope,
		"written", result.Stats.BytesWritten,
		"resets", result.Stats.Resets)

	return result
}

func (d *Decompressor) openInput(ctx context.Context, input string) (io.Reader, int64, func(), error) {
	if IsRemoteInput(input) {
		body, err := d.fetcher.Fetch(ctx, input)
		if err != nil {
			return nil, 0, nil, errors.Wrapf(err, "Failed to fetch %s", input)
		}
		return bytes.NewReader(body), int64(len(body)), func() {}, nil
	}

	file, err := os.Open(input)
	if err != nil {
		return nil, 0, nil, errors.Wrapf(err, "Failed to open input file %s", input)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close() // nolint: errcheck
		return nil, 0, nil, errors.Wrapf(err, "Failed to determine size of %s", input)
	}

	return file, info.Size(), func() { file.Close() }, nil // nolint: errcheck
}
