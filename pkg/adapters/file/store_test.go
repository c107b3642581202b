package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tracebench/pkg/adapters/file"
	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.TranscriptStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunTranscriptStoreContract(t, store)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".tracebench", "transcripts"), file.New("").BasePath)
}

func TestFileStore_Overwrite(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	tr := domain.NewTranscript("run-1", "signaltoy", nil)
	tr.Lines = []string{"Starting "}
	require.NoError(t, store.Save(ctx, tr))

	tr.Lines = append(tr.Lines, "Pre SIGTERM")
	require.NoError(t, store.Save(ctx, tr))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Starting ", "Pre SIGTERM"}, loaded.Lines)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		assert.Error(t, store.Save(ctx, domain.NewTranscript(id, "callchain", nil)), "id=%q", id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, "id=%q", id)
	}
}

func TestFileStore_ListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-run-9-123.json"), []byte("{}"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))
	require.NoError(t, store.Save(context.Background(), domain.NewTranscript("run-2", "callchain", nil)))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2"}, ids)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "does-not-exist"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
