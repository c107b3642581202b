/*
Package domain contains the core models shared by the tracebench harness.

It describes fixtures, the transcripts their runs produce, and the lifecycle
events emitted around a run. The package is kept free of I/O and persistence
so adapters (stores, transports) can depend on it without cycles.

# Key Entities

  - FixtureInfo: Descriptor of a registered debugger fixture.
  - Transcript: Captured stdout of one fixture run, plus outcome metadata.
  - LineDiff: The first divergence between an expected and an actual transcript.
  - LifecycleHooks: Callbacks for run observability (logging, metrics).
*/
package domain
