package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Exec(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	runner := NewRunner()
	runner.Register("echo_args", "sh", "-c", `echo "$#"`, "sh")

	t.Run("Executes Registered Command", func(t *testing.T) {
		res, err := runner.Exec(context.Background(), "echo_args", []string{"x", "y"})
		require.NoError(t, err)
		assert.Equal(t, "2\n", res.Stdout)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("Fails For Unregistered Command", func(t *testing.T) {
		_, err := runner.Exec(context.Background(), "hacker_script", nil)
		assert.ErrorContains(t, err, "not registered")
		assert.False(t, runner.Has("hacker_script"))
	})

	t.Run("Reports Exit Code", func(t *testing.T) {
		runner.Register("fail", "sh", "-c", "echo oops >&2; exit 3")
		res, err := runner.Exec(context.Background(), "fail", nil)
		require.NoError(t, err)
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "oops\n", res.Stderr)
	})

	t.Run("Passes Environment", func(t *testing.T) {
		r := NewRunner(WithRegistry(map[string]FixtureConfig{
			"env": {Command: "sh", Args: []string{"-c", "echo $FIXTURE_MODE"}, Environment: map[string]string{"FIXTURE_MODE": "trace"}},
		}))
		res, err := r.Exec(context.Background(), "env", nil)
		require.NoError(t, err)
		assert.Equal(t, "trace\n", res.Stdout)
		assert.Equal(t, []string{"env"}, r.Names())
	})

	t.Run("Missing Binary", func(t *testing.T) {
		runner.Register("ghost", filepath.Join(t.TempDir(), "nope"))
		_, err := runner.Exec(context.Background(), "ghost", nil)
		assert.ErrorContains(t, err, "execution failed")
	})
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
fixtures:
  - name: callchain
    command: ./bin/callchain
    args: ["one"]
    description: call chain
  - name: ""
    command: ignored
  - name: nocommand
`), 0644))

	fixtures, err := LoadFixtures(yamlPath)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	assert.Equal(t, "./bin/callchain", fixtures["callchain"].Command)
	assert.Equal(t, []string{"one"}, fixtures["callchain"].Args)

	jsonPath := filepath.Join(dir, "fixtures.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"fixtures":[{"name":"fibtracer","command":"./bin/fibtracer"}]}`), 0644))
	fixtures, err = LoadFixtures(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, fixtures, "fibtracer")

	fixtures, err = LoadFixtures(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, fixtures)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("fixtures: [:"), 0644))
	_, err = LoadFixtures(bad)
	assert.Error(t, err)
}
