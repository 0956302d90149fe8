package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nuclio/errors"
)

// Renders one row per decoded target
func DisplaySummary(out io.Writer, results []Result) {
	summary := table.NewWriter()
	summary.SetOutputMirror(out)
	summary.AppendHeader(table.Row{"Input", "Output", "Envelope", "Read", "Written", "Codes", "Resets", "Duration", "Status"})

	for _, result := range results {
		summary.AppendRow(table.Row{
			result.Input,
			result.Output,
			FormatEnvelope(result.Envelope),
			result.Stats.BytesRead,
			result.Stats.BytesWritten,
			result.Stats.CodesRead,
			result.Stats.Resets,
			result.Duration.Round(time.Microsecond),
			FormatStatus(result.Err),
		})
	}

	summary.Render()
}

// Converts a session error into a short status string
func FormatStatus(err error) string {
	if err == nil {
		return "ok"
	}

	if cause := errors.RootCause(err); cause != nil {
		return cause.Error()
	}

	return err.Error()
}

func FormatEnvelope(envelope string) string {
	if envelope == "" {
		return "-"
	}
	return envelope
}

// Writes a decoded stream frame in the configured format. JSON frames are
// re-indented; anything else is written as is.
func DisplayFrame(out io.Writer, frame []byte, format string) error {
	if format == FormatJSON {
		var indented bytes.Buffer
		if err := json.Indent(&indented, frame, "", "  "); err != nil {
			return errors.Wrap(err, "Failed to indent JSON frame")
		}
		indented.WriteByte('\n')
		_, err := out.Write(indented.Bytes())
		return err
	}

	_, err := out.Write(frame)
	return err
}

// Prints the stream welcome message
func PrintWelcomeMessage(out io.Writer, url string) {
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintf(out, "Decoding LZW frames from %s. Press Ctrl+C to stop.\n", url)
	fmt.Fprintln(out, strings.Repeat("=", 80))
}
