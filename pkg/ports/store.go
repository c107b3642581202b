package ports

import (
	"context"

	"github.com/aretw0/tracebench/pkg/domain"
)

// TranscriptStore defines the interface for persisting run transcripts.
type TranscriptStore interface {
	// Save persists the transcript under its ID, replacing any previous one.
	Save(ctx context.Context, transcript *domain.Transcript) error

	// Load retrieves a transcript by ID.
	// Returns domain.ErrTranscriptNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Transcript, error)

	// Delete removes a transcript. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of the stored transcripts.
	List(ctx context.Context) ([]string, error)
}
