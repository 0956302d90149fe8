package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/branila/lzwdecode/lzw"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

// Client orchestrates the stream services
type Client struct {
	config  *Config
	ws      *WSClient
	metrics *Metrics
	logger  logger.Logger
	console io.Writer
}

// Creates a new client with all dependencies. Decoded frames go to output,
// status messages to console.
func NewClient(parentLogger logger.Logger, config *Config, output io.Writer, console io.Writer) *Client {
	loggerInstance := parentLogger.GetChild("client")
	metrics := NewMetrics()
	decoder := lzw.NewDecoder(
		lzw.WithLogger(loggerInstance),
		lzw.WithPadding(config.DecoderPadding()),
	)

	return &Client{
		config:  config,
		ws:      NewWSClient(loggerInstance, &config.Stream, decoder, metrics, output),
		metrics: metrics,
		logger:  loggerInstance,
		console: console,
	}
}

// Starts the client and blocks until the server closes the stream, reading
// fails or an interrupt arrives
func (c *Client) Run() error {
	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.ws.Connect(ctx); err != nil {
		return err
	}
	defer c.ws.Close() // nolint: errcheck

	// Send initial message
	if c.config.Stream.InitMessage != "" {
		if err := c.ws.SendMessage([]byte(c.config.Stream.InitMessage)); err != nil {
			return errors.Wrap(err, "Failed to send initial message")
		}
	}

	if c.config.MetricsListenAddress != "" {
		go func() {
			if err := c.metrics.Serve(ctx, c.config.MetricsListenAddress, c.logger); err != nil {
				c.logger.WarnWith("Metrics server stopped", "err", err.Error())
			}
		}()
	}

	// Channel for interrupt signals
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	// Channel for read errors
	readErr := make(chan error, 1)

	// Start reading messages in a goroutine
	go func() {
		readErr <- c.ws.ReadMessages(ctx)
	}()

	PrintWelcomeMessage(c.console, c.config.Stream.URL)

	// Wait for either an interrupt signal or read error
	select {
	case err := <-readErr:
		if err != nil && err != context.Canceled {
			return errors.Wrap(err, "Stream read failed")
		}
		c.logger.Info("Connection closed by server")
	case <-interrupt:
		c.logger.Info("Interrupt received, shutting down")
		cancel()

		// Closing unblocks a pending read
		c.ws.Close() // nolint: errcheck

		// Wait a bit for graceful shutdown
		select {
		case <-readErr:
		case <-time.After(c.config.Stream.ShutdownTimeout):
			c.logger.Warn("Timeout waiting for graceful shutdown")
		}
	}

	return nil
}
