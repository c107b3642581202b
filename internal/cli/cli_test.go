package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/tracebench/internal/testutils"
	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileStoreOptions writes a config using the file store under a temp dir, so
// transcripts survive between harness instances.
func fileStoreOptions(t *testing.T) GlobalOptions {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tracebench.yaml")
	content := "store: file\nstore_dir: " + filepath.Join(dir, "transcripts") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return GlobalOptions{ConfigPath: cfgPath, LogLevel: "off"}
}

func TestRun_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	err := Run(context.Background(), &buf, RunOptions{
		GlobalOptions: GlobalOptions{LogLevel: "off"},
		Fixture:       "signaltoy",
		Verify:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Starting \nPre SIGTERM\nCaught in sigterm_handler! Signal: 15\nCaught in sigterm_handler! Signal: 15\nPost SIGTERM\n", buf.String())
}

func TestRun_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Run(context.Background(), &buf, RunOptions{
		GlobalOptions: GlobalOptions{LogLevel: "off"},
		Fixture:       "fibtracer-late",
		Verify:        true,
		JSON:          true,
	})
	require.NoError(t, err)

	var tr domain.Transcript
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tr))
	assert.Equal(t, "fibtracer-late", tr.Fixture)
	assert.Equal(t, domain.OutcomeVerified, tr.Outcome)
	assert.Equal(t, "4th of Fib = 2", tr.Lines[len(tr.Lines)-1])
}

func TestRun_Errors(t *testing.T) {
	t.Run("unknown fixture", func(t *testing.T) {
		var buf bytes.Buffer
		err := Run(context.Background(), &buf, RunOptions{
			GlobalOptions: GlobalOptions{LogLevel: "off"},
			Fixture:       "nope",
		})
		assert.ErrorIs(t, err, domain.ErrUnknownFixture)
		assert.Empty(t, buf.String())
	})

	t.Run("bad log level", func(t *testing.T) {
		err := Run(context.Background(), &bytes.Buffer{}, RunOptions{
			GlobalOptions: GlobalOptions{LogLevel: "loud"},
			Fixture:       "callchain",
		})
		assert.Error(t, err)
	})

	t.Run("missing explicit config", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("store: [\n"), 0644))
		err := Run(context.Background(), &bytes.Buffer{}, RunOptions{
			GlobalOptions: GlobalOptions{ConfigPath: cfgPath, LogLevel: "off"},
			Fixture:       "callchain",
		})
		assert.Error(t, err)
	})
}

func TestList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, GlobalOptions{LogLevel: "off"}, false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "NAME"))
	for _, name := range []string{"callchain", "fibtracer", "fibtracer-late", "signaltoy"} {
		assert.Contains(t, out, name)
	}

	buf.Reset()
	require.NoError(t, List(&buf, GlobalOptions{LogLevel: "off"}, true))
	var fixtures []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fixtures))
	assert.Len(t, fixtures, 4)
}

func TestTranscripts_ListAndShow(t *testing.T) {
	opts := fileStoreOptions(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, ListTranscripts(ctx, &buf, opts))
	assert.Contains(t, buf.String(), "No transcripts stored")

	require.NoError(t, Run(ctx, &bytes.Buffer{}, RunOptions{
		GlobalOptions: opts,
		Fixture:       "callchain",
		Args:          []string{"x"},
		Verify:        true,
		JSON:          true,
	}))

	buf.Reset()
	require.NoError(t, ListTranscripts(ctx, &buf, opts))
	ids := strings.Fields(buf.String())
	require.Len(t, ids, 1)

	buf.Reset()
	require.NoError(t, ShowTranscript(ctx, &buf, opts, ids[0], false, false))
	assert.Equal(t, 40, strings.Count(buf.String(), "\n"))

	err := ShowTranscript(ctx, &bytes.Buffer{}, opts, "missing", false, false)
	assert.ErrorIs(t, err, domain.ErrTranscriptNotFound)
}

func TestGraph(t *testing.T) {
	opts := fileStoreOptions(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, Graph(ctx, &buf, opts, "callchain", ""))
	assert.True(t, strings.HasPrefix(buf.String(), "graph TD"))
	assert.NotContains(t, buf.String(), "classDef")

	var runOut bytes.Buffer
	require.NoError(t, Run(ctx, &runOut, RunOptions{GlobalOptions: opts, Fixture: "callchain", JSON: true}))
	var tr domain.Transcript
	require.NoError(t, json.Unmarshal(runOut.Bytes(), &tr))

	buf.Reset()
	require.NoError(t, Graph(ctx, &buf, opts, "callchain", tr.ID))
	assert.Contains(t, buf.String(), "classDef")

	assert.ErrorIs(t, Graph(ctx, &buf, opts, "nope", ""), domain.ErrUnknownFixture)
}

func TestNewAPI(t *testing.T) {
	handler, h, err := NewAPI(GlobalOptions{LogLevel: "off"})
	require.NoError(t, err)
	defer h.Close()

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/fixtures/fibtracer/verify", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `tracebench_runs_total{fixture="fibtracer",outcome="verified"} 1`)
	assert.Contains(t, body.String(), "go_goroutines")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tracebench.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("http:\n  port: 0\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	require.NoError(t, Serve(ctx, &buf, GlobalOptions{ConfigPath: cfgPath, LogLevel: "off"}, 0))
	assert.Contains(t, buf.String(), "stopped gracefully")
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	err := ServeMCP(context.Background(), GlobalOptions{LogLevel: "off"}, "carrier-pigeon", 0)
	assert.ErrorContains(t, err, "unknown transport")
}

func TestLines(t *testing.T) {
	binary := testutils.BuildFixture(t, "callchain")

	var buf bytes.Buffer
	require.NoError(t, Lines(&buf, LinesOptions{Binary: binary, File: "callchain/callchain.go"}))
	out := buf.String()
	assert.Contains(t, out, "callchain.go\n")
	assert.Contains(t, out, " at 0x")

	err := Lines(&bytes.Buffer{}, LinesOptions{Binary: binary, File: "no/such/file.go"})
	assert.ErrorContains(t, err, "no source file matches")

	err = Lines(&bytes.Buffer{}, LinesOptions{Binary: binary, Breaks: []int{1}})
	assert.ErrorContains(t, err, "exactly one source file")
}

func TestLines_NotELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a binary"), 0644))
	assert.Error(t, Lines(&bytes.Buffer{}, LinesOptions{Binary: path}))
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "tracebench version "))
}

func TestCreateLogger(t *testing.T) {
	logger, err := createLogger("off", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = createLogger("debug", "json")
	require.NoError(t, err)

	_, err = createLogger("verbose", "")
	assert.Error(t, err)
}
