package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/internal/presentation/graph"
	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/runner"
)

// Engine is the subset of the narrator engine the tools call into.
type Engine interface {
	Start(ctx context.Context, override string) (*domain.StartResult, error)
	Scene(ctx context.Context, sessionID string) (domain.ScenePayload, error)
	Choose(ctx context.Context, sessionID, utterance string) (*domain.ChoiceResult, error)
	Reset(ctx context.Context, sessionID string) (domain.ScenePayload, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Story() *domain.Story
	LoadError() error
}

// Service exposes the engine as tool calls.
type Service struct {
	engine    Engine
	sanitizer runner.Sanitizer
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithSanitizer sets the utterance sanitizer.
func WithSanitizer(s runner.Sanitizer) Option {
	return func(svc *Service) {
		svc.sanitizer = s
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(svc *Service) {
		if logger != nil {
			svc.logger = logger
		}
	}
}

// NewService creates a tool service over engine.
func NewService(engine Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) fail(ctx context.Context, tool string, err error) Failure {
	f := FailureFrom(err)
	if f.Error == CodeInternal {
		s.logger.ErrorContext(ctx, "tool call failed", "tool", tool, "err", err)
	} else {
		s.logger.DebugContext(ctx, "tool call rejected", "tool", tool, "code", f.Error)
	}
	return f
}

// StartGame handles start_game.
func (s *Service) StartGame(ctx context.Context, req StartGameRequest) StartGameResponse {
	res, err := s.engine.Start(ctx, strings.TrimSpace(req.StartSceneOverride))
	if err != nil {
		return StartGameResponse{Failure: s.fail(ctx, ToolStartGame, err)}
	}
	scene := res.Scene
	return StartGameResponse{SessionID: res.SessionID, Scene: &scene}
}

// GetScene handles get_scene.
func (s *Service) GetScene(ctx context.Context, req SessionRequest) SceneResponse {
	if err := requireSession(req.SessionID); err != nil {
		return SceneResponse{Failure: s.fail(ctx, ToolGetScene, err)}
	}
	scene, err := s.engine.Scene(ctx, req.SessionID)
	if err != nil {
		return SceneResponse{Failure: s.fail(ctx, ToolGetScene, err)}
	}
	return SceneResponse{Scene: &scene}
}

// ChooseOption handles choose_option.
func (s *Service) ChooseOption(ctx context.Context, req ChooseOptionRequest) ChooseOptionResponse {
	if err := requireSession(req.SessionID); err != nil {
		return ChooseOptionResponse{Failure: s.fail(ctx, ToolChooseOption, err)}
	}
	utterance, err := s.sanitizer.Clean(req.Utterance)
	if err != nil {
		return ChooseOptionResponse{Failure: s.fail(ctx, ToolChooseOption, err)}
	}

	res, err := s.engine.Choose(ctx, req.SessionID, utterance)
	if err != nil {
		return ChooseOptionResponse{Failure: s.fail(ctx, ToolChooseOption, err)}
	}
	applied := res.AppliedChoice
	return ChooseOptionResponse{AppliedChoice: &applied, NextScene: res.NextScene}
}

// ResetGame handles reset_game.
func (s *Service) ResetGame(ctx context.Context, req SessionRequest) SceneResponse {
	if err := requireSession(req.SessionID); err != nil {
		return SceneResponse{Failure: s.fail(ctx, ToolResetGame, err)}
	}
	scene, err := s.engine.Reset(ctx, req.SessionID)
	if err != nil {
		return SceneResponse{Failure: s.fail(ctx, ToolResetGame, err)}
	}
	return SceneResponse{Scene: &scene}
}

// ListSessions returns the ids of stored sessions.
func (s *Service) ListSessions(ctx context.Context) SessionsResponse {
	ids, err := s.engine.ListSessions(ctx)
	if err != nil {
		return SessionsResponse{Failure: s.fail(ctx, "list_sessions", err)}
	}
	if ids == nil {
		ids = []string{}
	}
	return SessionsResponse{Sessions: ids}
}

// EndSession deletes a session. Unknown sessions are reported as session_not_found.
func (s *Service) EndSession(ctx context.Context, req SessionRequest) Failure {
	if err := requireSession(req.SessionID); err != nil {
		return s.fail(ctx, "end_session", err)
	}
	if _, err := s.engine.Session(ctx, req.SessionID); err != nil {
		return s.fail(ctx, "end_session", err)
	}
	if err := s.engine.DeleteSession(ctx, req.SessionID); err != nil {
		return s.fail(ctx, "end_session", err)
	}
	return Failure{}
}

// StoryInfo describes the loaded story.
func (s *Service) StoryInfo() StoryInfo {
	story := s.engine.Story()
	info := StoryInfo{
		Title:      story.Title,
		StartScene: story.StartScene,
		SceneCount: len(story.Scenes),
		Loaded:     s.engine.LoadError() == nil,
	}
	if err := s.engine.LoadError(); err != nil {
		info.LoadError = err.Error()
	}
	return info
}

// Graph renders the story as a Mermaid flowchart.
// With a session id the session's visited and current scenes are highlighted.
func (s *Service) Graph(ctx context.Context, sessionID string) GraphResponse {
	var overlay *graph.GraphOverlay
	if sessionID != "" {
		sess, err := s.engine.Session(ctx, sessionID)
		if err != nil {
			return GraphResponse{Failure: s.fail(ctx, "graph", err)}
		}
		overlay = graph.OverlayFromSession(sess)
	}
	return GraphResponse{Mermaid: graph.GenerateMermaid(s.engine.Story(), overlay)}
}

// requireSession rejects blank ids before they reach a store that may treat them as invalid keys.
func requireSession(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty session_id", domain.ErrSessionNotFound)
	}
	return nil
}
