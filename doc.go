/*
Package tracebench is a bench of small, deliberately simple programs for
exercising debuggers and tracers, plus the harness that runs and checks them.

# Fixtures

Each fixture lives in its own package under pkg/fixtures and has a standalone
executable under cmd/:

  - signaltoy: a SIGTERM handler that re-raises the signal once, so one raise
    produces two nested handler invocations.
  - fibtracer and fibtracer-late: naive recursive Fibonacci printing F(0..4),
    with a one-shot "Deep!" marker that substitutes 0 in one deep frame.
  - callchain: a fixed a -> b -> c -> d chain that branches on parity.

Fixture functions are marked //go:noinline so a debugger sees one frame per
call. The executables take no flags and print only their transcript.

# Harness

The Harness runs fixtures in-process or as executables, captures stdout into
a domain.Transcript, compares it with the expected transcript, and stores it.

	h, err := tracebench.New("tracebench.yaml")
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	tr, err := h.Verify(ctx, runner.Request{Fixture: "callchain"})
	if err != nil {
		log.Fatal(err) // wraps domain.ErrTranscriptMismatch on divergence
	}
	fmt.Println(tr.Outcome)

The same operations are served over HTTP (pkg/adapters/http) and MCP
(pkg/adapters/mcp), and the tracebench command wraps them all.

# Debug Info

pkg/debuginfo reads the DWARF line table of a fixture binary so breakpoints
can be placed by source line.
*/
package tracebench
