package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/narrator"
	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/pkg/tools"
)

// Server exposes the tool service as a JSON API.
type Server struct {
	Tools   *tools.Service
	Streams *StreamManager
	Metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams enables GET /sessions/{id}/events backed by sm.
// The same manager's Hooks must be installed on the engine for events to flow.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the tool service.
func NewHandler(svc *tools.Service, opts ...Option) http.Handler {
	server := &Server{
		Tools:  svc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/graph", server.GetGraph)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", server.StartGame)
		r.Get("/", server.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/scene", server.GetScene)
			r.Post("/choices", server.ChooseOption)
			r.Post("/reset", server.ResetGame)
			r.Delete("/", server.EndSession)
			if server.Streams != nil {
				r.Get("/events", server.SubscribeEvents)
			}
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StatusFor maps a tool error code to an HTTP status.
func StatusFor(code string) int {
	switch code {
	case "":
		return http.StatusOK
	case tools.CodeSessionNotFound:
		return http.StatusNotFound
	case tools.CodeNoCurrentScene, tools.CodeSceneNotFound:
		return http.StatusConflict
	case tools.CodeNoMatch:
		return http.StatusUnprocessableEntity
	case tools.CodeInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// StartGame handles POST /sessions. The body is optional.
func (s *Server) StartGame(w http.ResponseWriter, r *http.Request) {
	var req tools.StartGameRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	res := s.Tools.StartGame(r.Context(), req)
	status := StatusFor(res.Error)
	if status == http.StatusOK {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, res)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	res := s.Tools.ListSessions(r.Context())
	s.writeJSON(w, StatusFor(res.Error), res)
}

// GetScene handles GET /sessions/{id}/scene.
func (s *Server) GetScene(w http.ResponseWriter, r *http.Request) {
	res := s.Tools.GetScene(r.Context(), tools.SessionRequest{SessionID: chi.URLParam(r, "id")})
	s.writeJSON(w, StatusFor(res.Error), res)
}

type choiceBody struct {
	Utterance string `json:"utterance"`
}

// ChooseOption handles POST /sessions/{id}/choices.
func (s *Server) ChooseOption(w http.ResponseWriter, r *http.Request) {
	var body choiceBody
	if !s.decode(w, r, &body, false) {
		return
	}
	res := s.Tools.ChooseOption(r.Context(), tools.ChooseOptionRequest{
		SessionID: chi.URLParam(r, "id"),
		Utterance: body.Utterance,
	})
	s.writeJSON(w, StatusFor(res.Error), res)
}

// ResetGame handles POST /sessions/{id}/reset.
func (s *Server) ResetGame(w http.ResponseWriter, r *http.Request) {
	res := s.Tools.ResetGame(r.Context(), tools.SessionRequest{SessionID: chi.URLParam(r, "id")})
	s.writeJSON(w, StatusFor(res.Error), res)
}

// EndSession handles DELETE /sessions/{id}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	f := s.Tools.EndSession(r.Context(), tools.SessionRequest{SessionID: chi.URLParam(r, "id")})
	if !f.Failed() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, StatusFor(f.Error), f)
}

// GetGraph handles GET /graph. The optional session query highlights that session's path.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	res := s.Tools.Graph(r.Context(), r.URL.Query().Get("session"))
	if res.Failed() {
		s.writeJSON(w, StatusFor(res.Error), res)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, res.Mermaid)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type infoResponse struct {
	App     string          `json:"app"`
	Version string          `json:"version"`
	Story   tools.StoryInfo `json:"story"`
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, infoResponse{
		App:     "narrator-http",
		Version: strings.TrimSpace(narrator.Version),
		Story:   s.Tools.StoryInfo(),
	})
}

// decode reads a JSON body into v. An empty body is accepted when optional is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	s.logger.WarnContext(r.Context(), "invalid request body", "path", r.URL.Path, "err", err)
	s.writeJSON(w, http.StatusBadRequest, tools.Failure{
		Error:   tools.CodeInvalidInput,
		Message: tools.Message(tools.CodeInvalidInput),
	})
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
