/*
Package runner executes debugger fixtures and records what they print.

It owns the fixture registry, resolves whether a fixture runs in-process or
as a separate executable, captures the output into a domain.Transcript,
optionally verifies it against the fixture's golden transcript, and persists
the result through a ports.TranscriptStore.

# Key Components

  - Registry: Named fixtures with their run function and expected output.
  - Runner: Orchestrates a run, fires lifecycle hooks and stores transcripts.
  - Request: A run request, decodable from loosely typed maps (HTTP, MCP).

# Usage

	r := runner.New(
		runner.WithRegistry(runner.Default()),
		runner.WithStore(memory.NewStore()),
	)

	tr, err := r.Run(ctx, runner.Request{Fixture: "fibtracer", Verify: true})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(tr.Text())
*/
package runner
