package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTranscriptStoreContract runs a suite of tests to verify that a
// TranscriptStore implementation adheres to the interface contract.
func RunTranscriptStoreContract(t *testing.T, store TranscriptStore) {
	ctx := context.Background()
	id := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		tr := domain.NewTranscript(id, "fibtracer", []string{"ignored"})
		tr.Lines = []string{"0th of Fib = 0", "Deep!"}
		tr.Outcome = domain.OutcomeMismatch
		tr.Diff = &domain.LineDiff{Index: 1, Want: "1th of Fib = 1", Got: "Deep!"}

		require.NoError(t, store.Save(ctx, tr), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, tr.ID, loaded.ID)
		assert.Equal(t, tr.Fixture, loaded.Fixture)
		assert.Equal(t, tr.Args, loaded.Args)
		assert.Equal(t, tr.Lines, loaded.Lines)
		assert.Equal(t, tr.Outcome, loaded.Outcome)
		assert.Equal(t, tr.Diff, loaded.Diff)
	})

	t.Run("Load Is Isolated From Caller", func(t *testing.T) {
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Lines[0] = "mutated"

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "0th of Fib = 0", again.Lines[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewTranscript(id, "callchain", nil)))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTranscriptNotFound, "Load after Delete should return ErrTranscriptNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, domain.NewTranscript(id1, "signaltoy", nil)))
		require.NoError(t, store.Save(ctx, domain.NewTranscript(id2, "signaltoy", nil)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
		assert.NotContains(t, ids, id)
	})
}
