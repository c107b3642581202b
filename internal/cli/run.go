package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/tracebench/internal/presentation/tui"
	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/runner"
)

// RunOptions contains all the configuration for the run and verify commands.
type RunOptions struct {
	GlobalOptions
	Fixture string
	Args    []string
	Mode    string
	Verify  bool
	JSON    bool
	Styled  bool // render a markdown report instead of the raw output
}

// Run executes one fixture and prints its transcript to w.
// The transcript is printed even when the run fails or diverges; the
// returned error then describes why.
func Run(ctx context.Context, w io.Writer, opts RunOptions) error {
	h, _, err := newHarness(opts.GlobalOptions)
	if err != nil {
		return err
	}
	defer h.Close()

	req := runner.Request{
		Fixture: opts.Fixture,
		Args:    opts.Args,
		Mode:    domain.Mode(opts.Mode),
		Verify:  opts.Verify,
	}
	tr, runErr := h.Run(ctx, req)
	if tr == nil {
		return runErr
	}

	if err := writeTranscript(w, tr, opts.JSON, opts.Styled); err != nil {
		return err
	}
	return runErr
}

func writeTranscript(w io.Writer, tr *domain.Transcript, asJSON, styled bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tr); err != nil {
			return fmt.Errorf("failed to encode transcript: %w", err)
		}
		return nil
	}
	return tui.WriteTranscript(w, tr, styled)
}
