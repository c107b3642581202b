package runner

import (
	"log/slog"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithRegistry sets the fixture registry (default: Default()).
func WithRegistry(reg *Registry) Option {
	return func(r *Runner) {
		r.Registry = reg
	}
}

// WithExecutor configures out-of-process execution.
func WithExecutor(exec ports.FixtureExecutor) Option {
	return func(r *Runner) {
		r.Executor = exec
	}
}

// WithStore configures the TranscriptStore for persistence.
// Without a store, transcripts are only returned to the caller.
func WithStore(store ports.TranscriptStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.Hooks = r.Hooks.Merge(hooks)
	}
}

// WithIDGenerator overrides how transcript IDs are generated.
func WithIDGenerator(fn func(fixture string) string) Option {
	return func(r *Runner) {
		r.newID = fn
	}
}
