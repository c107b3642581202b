package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"

	"github.com/aretw0/tracebench/pkg/ports"
)

// Runner implements ports.FixtureExecutor by launching local executables.
// Only registered fixtures can be launched.
type Runner struct {
	registry map[string]FixtureConfig
	baseDir  string
}

var _ ports.FixtureExecutor = (*Runner)(nil)

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(fixtures map[string]FixtureConfig) RunnerOption {
	return func(r *Runner) {
		for name, f := range fixtures {
			f.Name = name
			r.registry[name] = f
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new process runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]FixtureConfig),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an executable to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = FixtureConfig{
		Name:    name,
		Command: command,
		Args:    args,
	}
}

// Has reports whether name is registered.
func (r *Runner) Has(name string) bool {
	_, ok := r.registry[name]
	return ok
}

// Names returns the registered fixture names, sorted.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exec runs the registered executable. Extra args are appended to the
// configured ones; the fixtures only look at their count.
func (r *Runner) Exec(ctx context.Context, name string, args []string) (ports.ExecResult, error) {
	f, ok := r.registry[name]
	if !ok {
		return ports.ExecResult{}, fmt.Errorf("fixture executable not registered: %s", name)
	}

	cmdArgs := append(append([]string{}, f.Args...), args...)
	cmd := exec.CommandContext(ctx, f.Command, cmdArgs...)
	cmd.Dir = r.baseDir

	env := make([]string, 0, len(f.Environment))
	for k, v := range f.Environment {
		env = append(env, k+"="+v)
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ports.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			// Killed by a signal reports -1; keep it, the transcript records it.
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("execution failed: %w. Stderr: %s", err, stderr.String())
	}
	return result, nil
}
