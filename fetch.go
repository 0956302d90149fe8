package main

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/nuclio/errors"
	"github.com/nuclio/logger"
)

// Downloads compressed inputs given as http(s) URLs
type Fetcher struct {
	client *http.Client
	config *Config
	logger logger.Logger
}

// Creates a new fetcher
func NewFetcher(parentLogger logger.Logger, config *Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
		config: config,
		logger: parentLogger.GetChild("fetcher"),
	}
}

// Reports whether an input names a remote resource
func IsRemoteInput(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Fetches the whole body of url
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.logger.DebugWith("Fetching input", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to make request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("Unexpected HTTP status %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read response body")
	}

	f.logger.DebugWith("Fetched input", "url", url, "size", len(body))

	return body, nil
}
