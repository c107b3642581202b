package runner

import (
	"strings"
	"testing"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	t.Run("Full Request", func(t *testing.T) {
		req, err := DecodeRequest(map[string]any{
			"fixture": "callchain",
			"args":    []any{"a", "b"},
			"mode":    "exec",
			"verify":  true,
		})
		require.NoError(t, err)
		assert.Equal(t, Request{Fixture: "callchain", Args: []string{"a", "b"}, Mode: domain.ModeExecutable, Verify: true}, req)
	})

	t.Run("Weak Types", func(t *testing.T) {
		req, err := DecodeRequest(map[string]any{
			"fixture": "callchain",
			"args":    "only",
			"verify":  "true",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"only"}, req.Args)
		assert.True(t, req.Verify)
	})

	t.Run("Unknown Key", func(t *testing.T) {
		_, err := DecodeRequest(map[string]any{"fixture": "callchain", "colour": "red"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("Missing Fixture", func(t *testing.T) {
		_, err := DecodeRequest(map[string]any{})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("Bad Mode", func(t *testing.T) {
		_, err := DecodeRequest(map[string]any{"fixture": "callchain", "mode": "remote"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestSanitizeArgs(t *testing.T) {
	out, err := SanitizeArgs([]string{"plain", "bell\a", "esc\x1b[31m"})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "bell", "esc[31m"}, out)

	_, err = SanitizeArgs([]string{strings.Repeat("x", DefaultMaxArgSize+1)})
	assert.ErrorIs(t, err, ErrArgTooLarge)

	_, err = SanitizeArgs([]string{"\xff"})
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = SanitizeArgs(make([]string, MaxArgs+1))
	assert.ErrorIs(t, err, ErrTooManyArgs)

	t.Setenv(EnvMaxArgSize, "3")
	_, err = SanitizeArgs([]string{"four"})
	assert.ErrorIs(t, err, ErrArgTooLarge)
}
