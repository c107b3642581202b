/*
Package ports defines the driven ports (interfaces) of the tracebench harness.

These interfaces decouple the runner from external implementations so
transcripts can live in memory, on disk, or in Redis.

# Key Interfaces

  - TranscriptStore: Persists and loads captured fixture transcripts.
  - FixtureExecutor: Runs a fixture out of process and returns its raw output.
*/
package ports
