package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/ports"
	"github.com/google/uuid"
)

// Runner executes fixtures and records their transcripts.
// It is safe for concurrent use as long as its collaborators are.
type Runner struct {
	Registry *Registry
	Executor ports.FixtureExecutor
	Store    ports.TranscriptStore
	Logger   *slog.Logger
	Hooks    domain.LifecycleHooks

	newID func(fixture string) string
}

// New creates a Runner with the default registry and no persistence.
func New(opts ...Option) *Runner {
	r := &Runner{
		Registry: Default(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID: func(fixture string) string {
			return fixture + "-" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Fixtures lists the registered fixtures.
func (r *Runner) Fixtures() []domain.FixtureInfo {
	return r.Registry.List()
}

// Graph returns the static call graph of a fixture.
func (r *Runner) Graph(name string) (domain.CallGraph, error) {
	fx, err := r.Registry.Lookup(name)
	if err != nil {
		return domain.CallGraph{}, err
	}
	return fx.Graph, nil
}

// Run executes the requested fixture and returns its transcript.
//
// The transcript is returned even when err is non-nil, so callers can show
// partial output. A failed run wraps the underlying error; a verified run
// whose output diverges returns domain.ErrTranscriptMismatch.
func (r *Runner) Run(ctx context.Context, req Request) (*domain.Transcript, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fx, err := r.Registry.Lookup(req.Fixture)
	if err != nil {
		return nil, err
	}

	mode, err := r.resolveMode(req)
	if err != nil {
		return nil, err
	}

	tr := domain.NewTranscript(r.newID(fx.Name), fx.Name, req.Args)
	tr.Mode = mode
	logger := r.Logger.With("fixture", fx.Name, "transcript_id", tr.ID, "mode", mode)

	r.emit(ctx, r.Hooks.OnRunStart, &domain.RunEvent{
		EventBase:    domain.EventBase{Timestamp: tr.StartedAt, Type: domain.EventRunStart},
		TranscriptID: tr.ID,
		Fixture:      fx.Name,
		Mode:         mode,
	})
	logger.Debug("Fixture run started", "args", len(req.Args))

	var runErr error
	switch mode {
	case domain.ModeExecutable:
		runErr = r.runExecutable(ctx, tr)
	default:
		runErr = r.runInProcess(ctx, fx, tr)
	}

	if runErr != nil {
		tr.Outcome = domain.OutcomeFailed
		tr.Error = runErr.Error()
	} else if req.Verify {
		tr.Diff = domain.DiffLines(fx.Expected(req.Args), tr.Lines)
		if tr.Diff != nil {
			tr.Outcome = domain.OutcomeMismatch
		} else {
			tr.Outcome = domain.OutcomeVerified
		}
	}
	tr.Duration = time.Since(tr.StartedAt)

	var saveErr error
	if r.Store != nil {
		if err := r.Store.Save(ctx, tr); err != nil {
			logger.Error("Failed to save transcript", "error", err)
			saveErr = fmt.Errorf("%w %s: %w", domain.ErrTranscriptNotSaved, tr.ID, err)
		}
	}

	r.emit(ctx, r.Hooks.OnRunFinish, &domain.RunEvent{
		EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunFinish},
		TranscriptID: tr.ID,
		Fixture:      fx.Name,
		Mode:         mode,
		Outcome:      tr.Outcome,
		Lines:        len(tr.Lines),
		Duration:     tr.Duration,
		Err:          runErr,
		SaveErr:      saveErr,
	})

	switch {
	case runErr != nil:
		logger.Warn("Fixture run failed", "error", runErr)
		return tr, errors.Join(fmt.Errorf("fixture %s failed: %w", fx.Name, runErr), saveErr)
	case tr.Outcome == domain.OutcomeMismatch:
		logger.Warn("Fixture output mismatch", "diff", tr.Diff.String())
		return tr, errors.Join(fmt.Errorf("%w: %s", domain.ErrTranscriptMismatch, tr.Diff), saveErr)
	}

	logger.Info("Fixture run finished", "outcome", tr.Outcome, "lines", len(tr.Lines), "duration", tr.Duration)
	return tr, saveErr
}

// Verify runs the fixture and checks its output against the expected transcript.
func (r *Runner) Verify(ctx context.Context, req Request) (*domain.Transcript, error) {
	req.Verify = true
	return r.Run(ctx, req)
}

// Transcript loads a stored transcript.
func (r *Runner) Transcript(ctx context.Context, id string) (*domain.Transcript, error) {
	if r.Store == nil {
		return nil, domain.ErrTranscriptNotFound
	}
	return r.Store.Load(ctx, id)
}

// Transcripts lists stored transcript IDs.
func (r *Runner) Transcripts(ctx context.Context) ([]string, error) {
	if r.Store == nil {
		return []string{}, nil
	}
	return r.Store.List(ctx)
}

func (r *Runner) resolveMode(req Request) (domain.Mode, error) {
	hasExec := r.Executor != nil && r.Executor.Has(req.Fixture)
	switch req.Mode {
	case domain.ModeExecutable:
		if !hasExec {
			return "", fmt.Errorf("%w: no executable configured for %s", domain.ErrInvalidRequest, req.Fixture)
		}
		return domain.ModeExecutable, nil
	case domain.ModeInProcess:
		return domain.ModeInProcess, nil
	}
	if hasExec {
		return domain.ModeExecutable, nil
	}
	return domain.ModeInProcess, nil
}

func (r *Runner) runInProcess(ctx context.Context, fx Fixture, tr *domain.Transcript) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var out bytes.Buffer
	err := fx.Run(ctx, &out, tr.Args)
	tr.Lines = domain.SplitLines(out.String())
	return err
}

func (r *Runner) runExecutable(ctx context.Context, tr *domain.Transcript) error {
	res, err := r.Executor.Exec(ctx, tr.Fixture, tr.Args)
	tr.Lines = domain.SplitLines(res.Stdout)
	tr.ExitCode = res.ExitCode
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("exit code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}

func (r *Runner) emit(ctx context.Context, hook func(context.Context, *domain.RunEvent), e *domain.RunEvent) {
	if hook != nil {
		hook(ctx, e)
	}
}
