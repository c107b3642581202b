package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tracebench/pkg/domain"
)

// TranscriptMarkdown formats a transcript as a markdown report.
func TranscriptMarkdown(tr *domain.Transcript) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", tr.Fixture)
	fmt.Fprintf(&sb, "- **id**: `%s`\n", tr.ID)
	fmt.Fprintf(&sb, "- **outcome**: %s\n", outcomeBadge(tr.Outcome))
	fmt.Fprintf(&sb, "- **mode**: %s\n", tr.Mode)
	if len(tr.Args) > 0 {
		fmt.Fprintf(&sb, "- **args**: `%s`\n", strings.Join(tr.Args, " "))
	}
	if tr.ExitCode != 0 {
		fmt.Fprintf(&sb, "- **exit code**: %d\n", tr.ExitCode)
	}
	fmt.Fprintf(&sb, "- **duration**: %s\n", tr.Duration)

	sb.WriteString("\n```text\n")
	sb.WriteString(tr.Text())
	sb.WriteString("```\n")

	if tr.Diff != nil {
		fmt.Fprintf(&sb, "\n> **mismatch** %s\n", tr.Diff)
	}
	if tr.Error != "" {
		fmt.Fprintf(&sb, "\n> **error** %s\n", tr.Error)
	}
	return sb.String()
}

func outcomeBadge(o domain.Outcome) string {
	switch o {
	case domain.OutcomeVerified:
		return "✅ verified"
	case domain.OutcomeMismatch:
		return "❌ mismatch"
	case domain.OutcomeFailed:
		return "💥 failed"
	}
	return string(o)
}

// WriteTranscript prints a transcript. With styled set the markdown report is
// rendered through glamour; otherwise the raw program output is written, so
// piping the command reproduces the fixture's stdout.
func WriteTranscript(w io.Writer, tr *domain.Transcript, styled bool) error {
	if !styled {
		_, err := io.WriteString(w, tr.Text())
		return err
	}

	out, err := NewRenderer()(TranscriptMarkdown(tr))
	if err != nil {
		return fmt.Errorf("failed to render transcript: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
