package tracebench

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/tracebench/internal/config"
	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/ports"
	"github.com/aretw0/tracebench/pkg/runner"
)

// Version is the release version, read from the VERSION file.
//
//go:embed VERSION
var Version string

// Harness is the high-level entry point for the tracebench library.
// It wires the runner to the configured store and fixture executables.
type Harness struct {
	*runner.Runner
	Config config.Config

	store  ports.TranscriptStore
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	reg    *runner.Registry
}

// Option defines a functional option for configuring the Harness.
type Option func(*Harness)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(h *Harness) {
		h.hooks = h.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithStore overrides the store selected by the configuration.
func WithStore(store ports.TranscriptStore) Option {
	return func(h *Harness) {
		h.store = store
	}
}

// WithRegistry replaces the built-in fixture registry.
func WithRegistry(reg *runner.Registry) Option {
	return func(h *Harness) {
		h.reg = reg
	}
}

// New loads the configuration at configPath and builds a Harness.
// An empty path or a missing file yields the defaults: in-memory store and
// in-process execution only.
func New(configPath string, opts ...Option) (*Harness, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}
	return NewWithConfig(cfg, opts...)
}

// NewWithConfig builds a Harness from an already loaded configuration.
func NewWithConfig(cfg config.Config, opts ...Option) (*Harness, error) {
	h := &Harness{Config: cfg}
	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if h.store == nil {
		store, err := cfg.NewStore()
		if err != nil {
			return nil, fmt.Errorf("failed to create store: %w", err)
		}
		h.store = store
	}

	runnerOpts := []runner.Option{
		runner.WithStore(h.store),
		runner.WithLogger(h.logger),
		runner.WithLifecycleHooks(h.hooks),
	}
	if h.reg != nil {
		runnerOpts = append(runnerOpts, runner.WithRegistry(h.reg))
	}
	if len(cfg.Fixtures) > 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		runnerOpts = append(runnerOpts, runner.WithExecutor(cfg.NewExecutor(wd)))
	}

	h.Runner = runner.New(runnerOpts...)
	return h, nil
}

// Store returns the transcript store in use.
func (h *Harness) Store() ports.TranscriptStore {
	return h.store
}

// Close releases the store connection, if it holds one.
func (h *Harness) Close() error {
	if c, ok := h.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
