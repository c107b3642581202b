package ports

import "context"

// ExecResult is the raw outcome of an out-of-process fixture run.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// FixtureExecutor runs a fixture executable by name.
type FixtureExecutor interface {
	// Has reports whether an executable is configured for the fixture.
	Has(name string) bool

	// Exec runs the fixture with the given arguments.
	// A non-zero exit code is reported in ExecResult, not as an error.
	Exec(ctx context.Context, name string, args []string) (ExecResult, error)
}
