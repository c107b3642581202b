package domain

import (
	"strings"
	"time"
)

// Outcome is the final status of a fixture run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed" // Ran to completion, output not checked
	OutcomeVerified  Outcome = "verified"  // Output matched the expected transcript
	OutcomeMismatch  Outcome = "mismatch"  // Output diverged from the expected transcript
	OutcomeFailed    Outcome = "failed"    // Fixture could not run
)

// Mode tells how a fixture was executed.
type Mode string

const (
	ModeInProcess  Mode = "inproc"
	ModeExecutable Mode = "exec"
)

// Transcript is the captured standard output of one fixture run.
type Transcript struct {
	ID        string        `json:"id"`
	Fixture   string        `json:"fixture"`
	Args      []string      `json:"args,omitempty"`
	Mode      Mode          `json:"mode"`
	Lines     []string      `json:"lines"`
	ExitCode  int           `json:"exit_code"`
	Outcome   Outcome       `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	Diff      *LineDiff     `json:"diff,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	// Sealed holds the encrypted transcript when it was stored through the
	// encryption middleware. Lines, Args and Error are empty in that case.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewTranscript creates an empty transcript for a run that is about to start.
func NewTranscript(id, fixture string, args []string) *Transcript {
	return &Transcript{
		ID:        id,
		Fixture:   fixture,
		Args:      args,
		Mode:      ModeInProcess,
		Lines:     []string{},
		Outcome:   OutcomeCompleted,
		StartedAt: time.Now(),
	}
}

// SplitLines turns raw program output into transcript lines.
// A trailing newline does not produce an empty final line.
func SplitLines(output string) []string {
	output = strings.TrimSuffix(output, "\n")
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}

// Text joins the transcript lines back into program output.
func (t *Transcript) Text() string {
	if len(t.Lines) == 0 {
		return ""
	}
	return strings.Join(t.Lines, "\n") + "\n"
}

// Clone returns a deep copy so stores never share slices with callers.
func (t *Transcript) Clone() *Transcript {
	c := *t
	c.Args = append([]string(nil), t.Args...)
	c.Lines = append([]string{}, t.Lines...)
	c.Sealed = append([]byte(nil), t.Sealed...)
	if t.Diff != nil {
		d := *t.Diff
		c.Diff = &d
	}
	return &c
}
