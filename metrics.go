package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/branila/lzwdecode/lzw"

	nuclioerrors "github.com/nuclio/errors"
	"github.com/nuclio/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counts decode sessions and their volume
type Metrics struct {
	registry     *prometheus.Registry
	sessions     *prometheus.CounterVec
	bytesRead    prometheus.Counter
	bytesWritten prometheus.Counter
	resets       prometheus.Counter
}

// Creates a new set of metrics on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lzwdecode",
			Name:      "sessions_total",
			Help:      "Decode sessions by result",
		}, []string{"result"}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lzwdecode",
			Name:      "input_bytes_total",
			Help:      "Compressed bytes consumed",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lzwdecode",
			Name:      "output_bytes_total",
			Help:      "Decoded bytes written",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lzwdecode",
			Name:      "dictionary_resets_total",
			Help:      "Dictionary resets at capacity",
		}),
	}

	m.registry.MustRegister(m.sessions, m.bytesRead, m.bytesWritten, m.resets)

	return m
}

// Records the outcome of one session
func (m *Metrics) Observe(stats lzw.Stats, err error) {
	m.sessions.WithLabelValues(sessionResult(err)).Inc()
	m.bytesRead.Add(float64(stats.BytesRead))
	m.bytesWritten.Add(float64(stats.BytesWritten))
	m.resets.Add(float64(stats.Resets))
}

func sessionResult(err error) string {
	var decodeErr *lzw.DecodeError

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &decodeErr):
		switch decodeErr.Kind {
		case lzw.IncompleteStream:
			return "incomplete_stream"
		case lzw.InvalidFirstCode:
			return "invalid_first_code"
		case lzw.InvalidCode:
			return "invalid_code"
		}
	}
	return "error"
}

// Exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serves /metrics on address until ctx is done
func (m *Metrics) Serve(ctx context.Context, address string, parentLogger logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	parentLogger.InfoWith("Serving metrics", "address", address)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return nuclioerrors.Wrap(err, "Failed to serve metrics")
	}

	return nil
}
