package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tracebench"
	"github.com/aretw0/tracebench/internal/presentation/graph"
	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FixturesURI is the resource listing the registered fixtures.
const FixturesURI = "tracebench://fixtures"

// RunResponse is the structured result of run_fixture.
type RunResponse struct {
	Transcript *domain.Transcript `json:"transcript" jsonschema_description:"The captured output of the run"`
	Passed     bool               `json:"passed" jsonschema_description:"False when the run failed or its output diverged"`
	Error      string             `json:"error,omitempty" jsonschema_description:"Failure or mismatch description"`
}

// Service is the part of the runner exposed as MCP tools.
type Service interface {
	Fixtures() []domain.FixtureInfo
	Graph(name string) (domain.CallGraph, error)
	Run(ctx context.Context, req runner.Request) (*domain.Transcript, error)
	Transcript(ctx context.Context, id string) (*domain.Transcript, error)
}

// Server wraps the fixture runner and exposes it as an MCP Server.
type Server struct {
	svc       Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(svc Service) *Server {
	s := &Server{
		svc:       svc,
		mcpServer: server.NewMCPServer("tracebench-mcp", strings.TrimSpace(tracebench.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_fixtures
	s.mcpServer.AddTool(mcp.NewTool("list_fixtures",
		mcp.WithDescription("List the debugger fixtures that can be run."),
	), s.handleListFixtures)

	// TOOL: run_fixture
	runTool := mcp.NewTool("run_fixture",
		mcp.WithDescription("Run a fixture and capture its standard output. With verify, compare it to the expected transcript."),
		mcp.WithString("fixture", mcp.Required(), mcp.Description("Fixture name, see list_fixtures")),
		mcp.WithString("args", mcp.Description("JSON array of program arguments (optional); callchain loops (argc+2)*2 times")),
		mcp.WithString("mode", mcp.Description("inproc or exec (optional, defaults to exec when an executable is configured)")),
		mcp.WithBoolean("verify", mcp.Description("Check the output against the expected transcript")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunFixture))

	// TOOL: get_transcript
	s.mcpServer.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Fetch a stored transcript by ID."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Transcript ID returned by run_fixture")),
	), s.handleGetTranscript)

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the static call graph of a fixture as a Mermaid flowchart."),
		mcp.WithString("fixture", mcp.Required(), mcp.Description("Fixture name")),
		mcp.WithString("transcript", mcp.Description("Transcript ID to overlay (optional)")),
	), s.handleGetGraph)
}

func (s *Server) handleListFixtures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.svc.Fixtures())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRunFixture(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	input := make(map[string]any, len(args))
	for k, v := range args {
		input[k] = v
	}
	// Arrays travel as JSON strings, like the other tools.
	if raw, ok := input["args"].(string); ok && strings.HasPrefix(strings.TrimSpace(raw), "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return RunResponse{}, fmt.Errorf("args must be a JSON array of strings: %w", err)
		}
		input["args"] = list
	}

	req, err := runner.DecodeRequest(input)
	if err != nil {
		slog.Warn("MCP Run: Request rejected", "error", err)
		return RunResponse{}, err
	}

	tr, err := s.svc.Run(ctx, req)
	if tr == nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}

	resp := RunResponse{Transcript: tr, Passed: err == nil}
	if err != nil {
		resp.Error = err.Error()
		if !errors.Is(err, domain.ErrTranscriptMismatch) {
			slog.Error("MCP Run: Fixture failed", "fixture", req.Fixture, "error", err)
		}
	}
	return resp, nil
}

func (s *Server) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := request.GetArguments()["id"].(string)
	tr, err := s.svc.Transcript(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get transcript failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(tr)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, _ := args["fixture"].(string)

	g, err := s.svc.Graph(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get graph failed: %v", err)), nil
	}

	var overlay *graph.GraphOverlay
	if id, _ := args["transcript"].(string); id != "" {
		tr, err := s.svc.Transcript(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("get transcript failed: %v", err)), nil
		}
		overlay = graph.OverlayFor(g, tr)
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(g, overlay)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: tracebench://fixtures
	s.mcpServer.AddResource(mcp.NewResource(FixturesURI, "Registered Fixtures",
		mcp.WithMIMEType("application/json"),
	), s.readFixtures)
}

func (s *Server) readFixtures(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.svc.Fixtures())
	if err != nil {
		return nil, fmt.Errorf("failed to encode fixtures: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FixturesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
