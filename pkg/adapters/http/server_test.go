package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tracebench/pkg/adapters/memory"
	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...HandlerOption) (http.Handler, *runner.Runner, *StreamManager) {
	t.Helper()

	streams := NewStreamManager()
	reg := runner.Default()
	reg.Register(runner.Fixture{
		FixtureInfo: domain.FixtureInfo{Name: "liar", Program: "liar"},
		Run: func(ctx context.Context, w io.Writer, args []string) error {
			_, err := io.WriteString(w, "nope\n")
			return err
		},
		Expected: func([]string) []string { return []string{"yes"} },
	})

	r := runner.New(
		runner.WithRegistry(reg),
		runner.WithStore(memory.NewStore()),
		runner.WithLifecycleHooks(streams.Hooks()),
	)
	opts = append([]HandlerOption{WithStreams(streams)}, opts...)
	return NewHandler(r, opts...), r, streams
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, rdr))
	return w
}

func TestListFixtures(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := do(t, h, "GET", "/fixtures", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.FixtureInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 5)
	assert.Equal(t, "callchain", got[0].Name)
}

func TestRunAndFetchTranscript(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := do(t, h, "POST", "/fixtures/callchain/verify", `{"args": ["x", "y"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tr domain.Transcript
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
	assert.Equal(t, domain.OutcomeVerified, tr.Outcome)
	assert.Len(t, tr.Lines, 5*10)

	w = do(t, h, "GET", "/transcripts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ids []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []string{tr.ID}, ids)

	w = do(t, h, "GET", "/transcripts/"+tr.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var loaded domain.Transcript
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, tr.Lines, loaded.Lines)
}

func TestRun_NoBody(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := do(t, h, "POST", "/fixtures/signaltoy/run", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"outcome":"completed"`)

	w = do(t, h, "POST", "/fixtures/signaltoy/run", "null")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestErrorStatus(t *testing.T) {
	h, _, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"Unknown Fixture", "POST", "/fixtures/nope/run", "", http.StatusNotFound},
		{"Unknown Transcript", "GET", "/transcripts/missing", "", http.StatusNotFound},
		{"Bad JSON", "POST", "/fixtures/callchain/run", "{", http.StatusBadRequest},
		{"Bad Mode", "POST", "/fixtures/callchain/run", `{"mode": "remote"}`, http.StatusBadRequest},
		{"Unknown Field", "POST", "/fixtures/callchain/run", `{"argz": []}`, http.StatusBadRequest},
		{"Forced Exec", "POST", "/fixtures/callchain/run", `{"mode": "exec"}`, http.StatusBadRequest},
		{"Mismatch", "POST", "/fixtures/liar/verify", "", http.StatusConflict},
		{"Unknown Graph", "GET", "/fixtures/nope/graph", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestGetGraph(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := do(t, h, "GET", "/fixtures/callchain/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	var g domain.CallGraph
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Len(t, g.Nodes, 7)

	w = do(t, h, "POST", "/fixtures/liar/verify", "")
	var tr domain.Transcript
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))

	w = do(t, h, "GET", "/fixtures/signaltoy/graph?format=mermaid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD\n"))
	assert.NotContains(t, w.Body.String(), "classDef")

	w = do(t, h, "GET", "/fixtures/callchain/graph?format=mermaid&transcript="+tr.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classDef visited")
}

func TestMetricsMount(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "tracebench_runs_total 1\n")
	})
	h, _, _ := newTestServer(t, WithMetrics(metrics))

	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tracebench_runs_total")

	h, _, _ = newTestServer(t)
	w = do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndInfo(t *testing.T) {
	h, _, _ := newTestServer(t)

	w := do(t, h, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.Contains(t, w.Body.String(), `"app":"tracebench-http"`)

	w = do(t, h, "OPTIONS", "/fixtures", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	h, r, streams := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events?fixture=fibtracer", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(wSub, reqSub)
	}()

	require.Eventually(t, func() bool {
		streams.mu.RLock()
		defer streams.mu.RUnlock()
		return len(streams.subscribers["fibtracer"]) == 1
	}, time.Second, 10*time.Millisecond)

	_, err := r.Run(context.Background(), runner.Request{Fixture: "callchain"})
	require.NoError(t, err)
	_, err = r.Verify(context.Background(), runner.Request{Fixture: "fibtracer"})
	require.NoError(t, err)

	// Each received message is written before the next select, so an empty
	// buffer means everything reached the recorder.
	require.Eventually(t, func() bool {
		streams.mu.RLock()
		defer streams.mu.RUnlock()
		for ch := range streams.subscribers["fibtracer"] {
			return len(ch) == 0
		}
		return false
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"type":"run_start"`)
	assert.Contains(t, output, `"outcome":"verified"`)
	assert.NotContains(t, output, `"fixture":"callchain"`)
}

type unavailableStore struct{ *memory.Store }

func (unavailableStore) Save(ctx context.Context, tr *domain.Transcript) error {
	return errors.New("disk full")
}

func TestRun_TranscriptNotSaved(t *testing.T) {
	r := runner.New(runner.WithStore(unavailableStore{memory.NewStore()}))
	h := NewHandler(r)

	w := do(t, h, "POST", "/fixtures/fibtracer/verify", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

	var tr domain.Transcript
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
	assert.Equal(t, domain.OutcomeVerified, tr.Outcome)
	assert.Empty(t, tr.Error)
}
