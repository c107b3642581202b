package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/tracebench"
	"github.com/aretw0/tracebench/internal/config"
	"github.com/aretw0/tracebench/internal/logging"
	"github.com/aretw0/tracebench/pkg/domain"
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string // overrides log_level from the config when set
	LogFormat  string
}

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger on Stderr.
// "off" disables logging.
func createLogger(level string, format string) (*slog.Logger, error) {
	if level == "off" {
		return logging.NewNop(), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, lvl, logging.Format(format)), nil
}

// loadConfig reads path, defaulting to tracebench.yaml in the working directory.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.DefaultPath
	}
	return config.Load(path)
}

// newHarness loads the config and builds a Harness with the resolved logger.
func newHarness(opts GlobalOptions, extra ...tracebench.Option) (*tracebench.Harness, *slog.Logger, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := createLogger(level, opts.LogFormat)
	if err != nil {
		return nil, nil, err
	}

	hOpts := []tracebench.Option{
		tracebench.WithLogger(logger),
		tracebench.WithLifecycleHooks(createDebugHooks(logger)),
	}
	h, err := tracebench.NewWithConfig(cfg, append(hOpts, extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing tracebench: %w", err)
	}
	return h, logger, nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "fixture", e.Fixture, "transcript_id", e.TranscriptID, "mode", e.Mode)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.Debug("Run Finish (Error)", "fixture", e.Fixture, "err", e.Err)
			} else {
				logger.Debug("Run Finish", "fixture", e.Fixture, "outcome", e.Outcome, "lines", e.Lines)
			}
			if e.SaveErr != nil {
				logger.Debug("Run Transcript Not Saved", "transcript_id", e.TranscriptID, "err", e.SaveErr)
			}
		},
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
