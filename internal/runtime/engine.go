package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/matcher"
	"github.com/aretw0/narrator/pkg/session"
)

// Engine executes session transitions over an immutable story.
type Engine struct {
	story    *domain.Story
	loadErr  error
	sessions *session.Manager
	matcher  *matcher.Matcher
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMatcher replaces the default matcher.
func WithMatcher(m *matcher.Matcher) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithLoadError records the error the story loader reported, if any.
func WithLoadError(err error) EngineOption {
	return func(e *Engine) {
		e.loadErr = err
	}
}

// NewEngine creates an engine. A nil story is treated as the empty story.
func NewEngine(story *domain.Story, sessions *session.Manager, opts ...EngineOption) *Engine {
	if story == nil {
		story = domain.NewStory()
	}
	e := &Engine{
		story:    story,
		sessions: sessions,
		matcher:  matcher.New(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Story returns the story the engine navigates.
func (e *Engine) Story() *domain.Story {
	return e.story
}

// LoadError returns the story load failure, or nil.
func (e *Engine) LoadError() error {
	return e.loadErr
}

// Sessions exposes the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Session returns a snapshot of the session, history included.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.sessions.Get(ctx, sessionID)
}

// ListSessions returns the ids of the stored sessions.
func (e *Engine) ListSessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "session deleted", "session_id", sessionID)
	return nil
}

// Matcher exposes the choice matcher.
func (e *Engine) Matcher() *matcher.Matcher {
	return e.matcher
}

// render formats the scene with the given id; unknown or empty ids give the empty payload.
func (e *Engine) render(sceneID string) domain.ScenePayload {
	if sceneID == "" {
		return domain.EmptyScene()
	}
	return domain.FormatScene(e.story.Scene(sceneID))
}

// Start creates a session at override (or the story's entry scene) and returns its first scene.
func (e *Engine) Start(ctx context.Context, override string) (*domain.StartResult, error) {
	start := e.story.StartFor(override)

	id, err := e.sessions.Create(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	e.logger.InfoContext(ctx, "session started", "session_id", id, "scene", start)
	if e.hooks.OnSessionStart != nil {
		e.hooks.OnSessionStart(ctx, &domain.SessionEvent{
			EventBase: domain.NewEventBase(domain.EventSessionStart, id),
			SceneID:   start,
		})
	}

	return &domain.StartResult{
		SessionID: id,
		Scene:     e.render(start),
	}, nil
}

// Scene returns the session's current scene without changing it.
// A current scene id the story does not define renders as the empty payload.
func (e *Engine) Scene(ctx context.Context, sessionID string) (domain.ScenePayload, error) {
	s, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.EmptyScene(), err
	}
	if s.Terminated() {
		return domain.EmptyScene(), domain.ErrNoCurrentScene
	}
	return e.render(s.CurrentScene), nil
}

// Choose resolves utterance against the session's current scene and applies the
// matched choice. Lookup, resolution and the write happen under the session's lock,
// so concurrent calls on one session are applied one after the other.
func (e *Engine) Choose(ctx context.Context, sessionID, utterance string) (*domain.ChoiceResult, error) {
	var (
		match    matcher.Match
		from, to string
	)

	err := e.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		scene := e.story.Scene(s.CurrentScene)
		if s.Terminated() || scene == nil {
			return fmt.Errorf("%w: %q", domain.ErrCurrentSceneNotFound, s.CurrentScene)
		}

		m, ok := e.matcher.Resolve(scene, utterance)
		if !ok {
			return &domain.NoMatchError{
				SceneID:          scene.ID,
				Utterance:        utterance,
				AvailableChoices: domain.ChoiceLabels(scene),
			}
		}

		match = m
		from = s.CurrentScene
		to = ""
		if m.Choice.NextScene != nil {
			to = *m.Choice.NextScene
		}

		s.History = append(s.History, domain.HistoryEntry{
			At:          time.Now().UTC(),
			FromScene:   from,
			ChoiceLabel: m.Choice.Label,
			ChoiceID:    deref(m.Choice.ID),
			ToScene:     to,
		})
		s.CurrentScene = to
		return nil
	})

	var noMatch *domain.NoMatchError
	if errors.As(err, &noMatch) {
		e.logger.DebugContext(ctx, "no confident match",
			"session_id", sessionID,
			"scene", noMatch.SceneID,
			"utterance", utterance,
		)
		if e.hooks.OnNoMatch != nil {
			e.hooks.OnNoMatch(ctx, &domain.ChoiceEvent{
				EventBase: domain.NewEventBase(domain.EventNoMatch, sessionID),
				FromScene: noMatch.SceneID,
			})
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "choice applied",
		"session_id", sessionID,
		"from", from,
		"to", to,
		"candidate", match.Candidate,
		"tier", match.Tier,
		"score", match.Score,
	)
	if e.hooks.OnChoiceApplied != nil {
		e.hooks.OnChoiceApplied(ctx, &domain.ChoiceEvent{
			EventBase: domain.NewEventBase(domain.EventChoiceApplied, sessionID),
			FromScene: from,
			ToScene:   to,
			ChoiceID:  deref(match.Choice.ID),
			Tier:      string(match.Tier),
			Score:     match.Score,
		})
	}

	result := &domain.ChoiceResult{AppliedChoice: match.Choice}
	if next := e.story.Scene(to); next != nil {
		payload := domain.FormatScene(next)
		result.NextScene = &payload
	}
	return result, nil
}

// Reset moves the session back to the story's declared start scene.
// History is kept.
func (e *Engine) Reset(ctx context.Context, sessionID string) (domain.ScenePayload, error) {
	start := e.story.StartScene

	err := e.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.CurrentScene = start
		return nil
	})
	if err != nil {
		return domain.EmptyScene(), err
	}

	e.logger.InfoContext(ctx, "session reset", "session_id", sessionID, "scene", start)
	if e.hooks.OnReset != nil {
		e.hooks.OnReset(ctx, &domain.SessionEvent{
			EventBase: domain.NewEventBase(domain.EventSessionReset, sessionID),
			SceneID:   start,
		})
	}
	return e.render(start), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
