package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tracebench"
	httpAdapter "github.com/aretw0/tracebench/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/tracebench/pkg/adapters/mcp"
	"github.com/aretw0/tracebench/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// NewAPI builds the HTTP handler served by the serve command: the fixture
// API with run events streamed over SSE and Prometheus metrics on /metrics.
// The caller owns the returned Harness and must Close it.
func NewAPI(opts GlobalOptions) (http.Handler, *tracebench.Harness, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)
	streams := httpAdapter.NewStreamManager()

	h, logger, err := newHarness(opts,
		tracebench.WithLifecycleHooks(metrics.Hooks()),
		tracebench.WithLifecycleHooks(streams.Hooks()),
	)
	if err != nil {
		return nil, nil, err
	}

	handler := httpAdapter.NewHandler(h,
		httpAdapter.WithStreams(streams),
		httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		httpAdapter.WithLogger(logger),
	)
	return handler, h, nil
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
// A zero port falls back to http.port from the config.
func Serve(ctx context.Context, w io.Writer, opts GlobalOptions, port int) error {
	handler, h, err := NewAPI(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	if port == 0 {
		port = h.Config.HTTP.Port
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	printSystemMessage(w, "Starting tracebench server on %s (store: %s)", srv.Addr, h.Config.Store)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		if sc, ok := ctx.(*SignalContext); ok && sc.Signal() != nil {
			printSystemMessage(w, "Start shutdown... Signal: %v", sc.Signal())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			closeErr := srv.Close()
			return errors.Join(fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err), closeErr)
		}
		printSystemMessage(w, "tracebench server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over stdio or SSE.
func ServeMCP(ctx context.Context, opts GlobalOptions, transport string, port int) error {
	h, logger, err := newHarness(opts)
	if err != nil {
		return err
	}
	defer h.Close()

	// mcp-go and the adapter log through the default logger; stdout belongs to JSON-RPC.
	slog.SetDefault(logger)

	srv := mcpAdapter.NewServer(h)
	switch transport {
	case "stdio":
		logger.Info("Starting tracebench MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		if port == 0 {
			port = h.Config.HTTP.Port
		}
		logger.Info("Starting tracebench MCP server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}
