package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/formbind"
	"github.com/aretw0/formbind/internal/redact"
	"github.com/aretw0/formbind/pkg/adapters/memory"
	fbhttp "github.com/aretw0/formbind/pkg/adapters/http"
	"github.com/aretw0/formbind/pkg/observability"
	"github.com/aretw0/formbind/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures Serve.
type ServeOptions struct {
	Addr string
	// Redact lists key patterns masked in event streams.
	Redact []string
}

// NewServeHandler wires the form API and /metrics over a fresh session manager.
func NewServeHandler(logger *slog.Logger, reg *prometheus.Registry, redactor *redact.Redactor) http.Handler {
	metrics := observability.NewMetrics(reg)
	sessions := session.NewManager(memory.NewStore(), session.WithLogger(logger))
	api := fbhttp.NewHandler(sessions,
		fbhttp.WithLogger(logger),
		fbhttp.WithRedactor(redactor),
		fbhttp.WithFormOptions(
			formbind.WithLogger(logger),
			formbind.WithHooks(metrics.Hooks()),
			formbind.WithHooks(observability.LogHooks(logger)),
		),
	)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", api)
	return r
}

// Serve runs the HTTP server on opts.Addr until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, opts ServeOptions, logger *slog.Logger) error {
	redactor, err := redact.New(opts.Redact...)
	if err != nil {
		return fmt.Errorf("redact pattern: %w", err)
	}
	addr := opts.Addr

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServeHandler(logger, reg, redactor),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("formbind server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down", "timeout", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		return nil
	}
}
