/*
Package fixtures groups the debugger fixture programs driven by tracebench.

Each sub-package is self-contained and shares nothing with its siblings:

  - signaltoy: a termination-signal handler that re-raises itself once.
  - fibtracer: naive recursive Fibonacci with a one-shot "deep stack" marker.
  - callchain: a fixed a -> b -> c -> d call chain branching on parity.

The programs print to an io.Writer so the same code backs the standalone
executables under cmd/ and the in-process harness. Functions a debugger is
expected to stop in are marked //go:noinline to keep their frames on the stack.
Every package exposes Expected, the golden transcript of a run.
*/
package fixtures
