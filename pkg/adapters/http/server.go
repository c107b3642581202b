package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/tracebench"
	"github.com/aretw0/tracebench/internal/presentation/graph"
	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is the part of the runner the API exposes.
type Service interface {
	Fixtures() []domain.FixtureInfo
	Graph(name string) (domain.CallGraph, error)
	Run(ctx context.Context, req runner.Request) (*domain.Transcript, error)
	Transcript(ctx context.Context, id string) (*domain.Transcript, error)
	Transcripts(ctx context.Context) ([]string, error)
}

var _ Service = (*runner.Runner)(nil)

// Server serves the fixture API.
type Server struct {
	Service Service
	Streams *StreamManager
	Logger  *slog.Logger
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	streams *StreamManager
	metrics http.Handler
	logger  *slog.Logger
}

// WithStreams shares a StreamManager whose hooks are installed on the runner.
func WithStreams(sm *StreamManager) HandlerOption {
	return func(c *handlerConfig) { c.streams = sm }
}

// WithMetrics mounts a metrics handler (usually promhttp) on GET /metrics.
func WithMetrics(h http.Handler) HandlerOption {
	return func(c *handlerConfig) { c.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(c *handlerConfig) { c.logger = l }
}

// NewHandler creates the HTTP handler for the service.
func NewHandler(svc Service, opts ...HandlerOption) http.Handler {
	cfg := &handlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.streams == nil {
		cfg.streams = NewStreamManager()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	s := &Server{Service: svc, Streams: cfg.streams, Logger: cfg.logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/fixtures", func(r chi.Router) {
		r.Get("/", s.ListFixtures)
		r.Get("/{name}/graph", s.GetGraph)
		r.Post("/{name}/run", s.runHandler(false))
		r.Post("/{name}/verify", s.runHandler(true))
	})

	r.Route("/transcripts", func(r chi.Router) {
		r.Get("/", s.ListTranscripts)
		r.Get("/{id}", s.GetTranscript)
	})

	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListFixtures handles GET /fixtures.
func (s *Server) ListFixtures(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Service.Fixtures())
}

// GetGraph handles GET /fixtures/{name}/graph.
// With ?format=mermaid the graph is returned as a Mermaid flowchart, and
// ?transcript=<id> overlays the nodes that run went through.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.Service.Graph(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") != "mermaid" {
		s.writeJSON(w, http.StatusOK, g)
		return
	}

	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("transcript"); id != "" {
		tr, err := s.Service.Transcript(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		overlay = graph.OverlayFor(g, tr)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(g, overlay))
}

// runHandler handles POST /fixtures/{name}/run and /verify.
// The body is optional: {"args": [...], "mode": "inproc|exec"}.
func (s *Server) runHandler(verify bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			s.Logger.Warn("Run: Invalid request body", "error", err)
			s.writeError(w, fmt.Errorf("%w: invalid request body", domain.ErrInvalidRequest))
			return
		}
		if body == nil {
			body = map[string]any{}
		}
		body["fixture"] = chi.URLParam(r, "name")
		if verify {
			body["verify"] = true
		}

		req, err := runner.DecodeRequest(body)
		if err != nil {
			s.writeError(w, err)
			return
		}

		tr, err := s.Service.Run(r.Context(), req)
		switch {
		case err == nil:
			s.writeJSON(w, http.StatusOK, tr)
		case tr == nil:
			s.writeError(w, err)
		case errors.Is(err, domain.ErrTranscriptMismatch):
			s.writeJSON(w, http.StatusConflict, tr)
		case tr.Outcome != domain.OutcomeFailed && errors.Is(err, domain.ErrTranscriptNotSaved):
			s.Logger.Error("Run transcript not saved", "fixture", req.Fixture, "error", err)
			s.writeJSON(w, http.StatusServiceUnavailable, tr)
		default:
			s.Logger.Error("Run failed", "fixture", req.Fixture, "error", err)
			s.writeJSON(w, http.StatusInternalServerError, tr)
		}
	}
}

// ListTranscripts handles GET /transcripts.
func (s *Server) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.Transcripts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetTranscript handles GET /transcripts/{id}.
func (s *Server) GetTranscript(w http.ResponseWriter, r *http.Request) {
	tr, err := s.Service.Transcript(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tr)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tracebench-http",
		"version": strings.TrimSpace(tracebench.Version),
	})
}

// SubscribeEvents handles the GET /events request (SSE).
// ?fixture=<name> restricts the stream to one fixture.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	topic := r.URL.Query().Get("fixture")
	if topic == "" {
		topic = AllFixtures
	}
	s.Logger.Info("SSE: Subscribing to run events", "fixture", topic)

	ch, cancel := s.Streams.Subscribe(topic)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("Request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownFixture), errors.Is(err, domain.ErrTranscriptNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTranscriptMismatch):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
