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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/narrator"
	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/pkg/tools"
)

// StoryURI is the resource describing the loaded story.
const StoryURI = "narrator://story"

// Server exposes the narrator tools over the Model Context Protocol.
type Server struct {
	tools     *tools.Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *tools.Service, opts ...Option) *Server {
	s := &Server{
		tools:     svc,
		mcpServer: server.NewMCPServer("narrator-mcp", strings.TrimSpace(narrator.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(tools.ToolStartGame,
		mcp.WithDescription("Start a new game session and return its id with the opening scene."),
		mcp.WithString("start_scene_override", mcp.Description("Scene to start from instead of the story's start scene")),
		mcp.WithOutputSchema[tools.StartGameResponse](),
	), mcp.NewTypedToolHandler(s.HandleStartGame))

	s.mcpServer.AddTool(mcp.NewTool(tools.ToolGetScene,
		mcp.WithDescription("Return the current scene of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithOutputSchema[tools.SceneResponse](),
	), mcp.NewTypedToolHandler(s.HandleGetScene))

	s.mcpServer.AddTool(mcp.NewTool(tools.ToolChooseOption,
		mcp.WithDescription("Pick one of the current scene's choices from what the player said."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithString("utterance", mcp.Required(), mcp.Description("What the player said")),
		mcp.WithOutputSchema[tools.ChooseOptionResponse](),
	), mcp.NewTypedToolHandler(s.HandleChooseOption))

	s.mcpServer.AddTool(mcp.NewTool(tools.ToolResetGame,
		mcp.WithDescription("Send a session back to the story's start scene."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_game")),
		mcp.WithOutputSchema[tools.SceneResponse](),
	), mcp.NewTypedToolHandler(s.HandleResetGame))
}

// HandleStartGame handles the start_game tool.
func (s *Server) HandleStartGame(ctx context.Context, _ mcp.CallToolRequest, args tools.StartGameRequest) (*mcp.CallToolResult, error) {
	res := s.tools.StartGame(ctx, args)
	return s.result(tools.ToolStartGame, res, res.Failure)
}

// HandleGetScene handles the get_scene tool.
func (s *Server) HandleGetScene(ctx context.Context, _ mcp.CallToolRequest, args tools.SessionRequest) (*mcp.CallToolResult, error) {
	res := s.tools.GetScene(ctx, args)
	return s.result(tools.ToolGetScene, res, res.Failure)
}

// HandleChooseOption handles the choose_option tool.
func (s *Server) HandleChooseOption(ctx context.Context, _ mcp.CallToolRequest, args tools.ChooseOptionRequest) (*mcp.CallToolResult, error) {
	res := s.tools.ChooseOption(ctx, args)
	return s.result(tools.ToolChooseOption, res, res.Failure)
}

// HandleResetGame handles the reset_game tool.
func (s *Server) HandleResetGame(ctx context.Context, _ mcp.CallToolRequest, args tools.SessionRequest) (*mcp.CallToolResult, error) {
	res := s.tools.ResetGame(ctx, args)
	return s.result(tools.ToolResetGame, res, res.Failure)
}

// result wraps a tool response. Failures are reported in-band with IsError set
// so the model can read available_choices and retry.
func (s *Server) result(tool string, res any, f tools.Failure) (*mcp.CallToolResult, error) {
	text, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("%s: encode response: %w", tool, err)
	}
	out := mcp.NewToolResultStructured(res, string(text))
	if f.Failed() {
		s.logger.Debug("MCP tool returned failure", "tool", tool, "code", f.Error)
		out.IsError = true
	}
	return out, nil
}

type storyResource struct {
	tools.StoryInfo
	Mermaid string `json:"mermaid"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StoryURI, "Story",
		mcp.WithResourceDescription("The loaded story: title, start scene, scene count and a Mermaid graph"),
		mcp.WithMIMEType("application/json"),
	), s.HandleStoryResource)
}

// HandleStoryResource serves narrator://story.
func (s *Server) HandleStoryResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	graph := s.tools.Graph(ctx, "")
	b, err := json.Marshal(storyResource{StoryInfo: s.tools.StoryInfo(), Mermaid: graph.Mermaid})
	if err != nil {
		return nil, fmt.Errorf("failed to encode story: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StoryURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
