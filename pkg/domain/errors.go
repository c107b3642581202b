package domain

import "errors"

// ErrTranscriptNotFound is returned when a transcript ID cannot be found in the store.
var ErrTranscriptNotFound = errors.New("transcript not found")

// ErrUnknownFixture is returned when a fixture name is not registered.
var ErrUnknownFixture = errors.New("unknown fixture")

// ErrTranscriptMismatch is returned by verification when the captured output
// differs from the expected transcript.
var ErrTranscriptMismatch = errors.New("transcript mismatch")

// ErrTranscriptNotSaved is returned when a run finished but its transcript
// could not be persisted. The transcript outcome still describes the run.
var ErrTranscriptNotSaved = errors.New("transcript not saved")

// ErrInvalidRequest is returned when run arguments cannot be decoded.
var ErrInvalidRequest = errors.New("invalid run request")
