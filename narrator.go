package narrator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/narrator/internal/logging"
	"github.com/aretw0/narrator/internal/runtime"
	"github.com/aretw0/narrator/pkg/adapters/memory"
	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/matcher"
	"github.com/aretw0/narrator/pkg/ports"
	"github.com/aretw0/narrator/pkg/session"
	"github.com/aretw0/narrator/pkg/story"
)

// Engine is the high-level entry point for the Narrator library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine

	story      *domain.Story
	store      ports.SessionStore
	locker     ports.DistributedLocker
	lockTTL    time.Duration
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	matchOpts  []matcher.Option
	cutoff     float64
	overlap    float64
	thresholds bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStory injects an already built story, bypassing the story document.
func WithStory(s *domain.Story) Option {
	return func(e *Engine) {
		e.story = s
	}
}

// WithStore sets the session store (default: in memory).
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking of sessions across replicas.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// WithThresholds sets the similarity cutoff and the token overlap threshold.
func WithThresholds(cutoff, overlap float64) Option {
	return func(e *Engine) {
		e.cutoff = cutoff
		e.overlap = overlap
		e.thresholds = true
	}
}

// WithMatcherOptions passes extra options to the choice matcher.
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(e *Engine) {
		e.matchOpts = append(e.matchOpts, opts...)
	}
}

// New initializes a new Narrator Engine.
// The story document at storyPath is loaded unless WithStory is given; each
// path is read once per process and shared by every engine built on it. A
// story that fails to load does not fail New: the engine runs on an empty
// story and LoadError reports why.
func New(storyPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.thresholds {
		if invalidThreshold(eng.cutoff) || invalidThreshold(eng.overlap) {
			return nil, fmt.Errorf("invalid thresholds: cutoff=%v overlap=%v", eng.cutoff, eng.overlap)
		}
		eng.matchOpts = append([]matcher.Option{
			matcher.WithCutoff(eng.cutoff),
			matcher.WithOverlapThreshold(eng.overlap),
		}, eng.matchOpts...)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	var loadErr error
	if eng.story == nil {
		eng.story, loadErr = story.Shared(storyPath)
		if loadErr != nil {
			eng.logger.Error("story could not be loaded, continuing with an empty story",
				"path", storyPath,
				"err", loadErr,
			)
		} else {
			eng.logger.Info("story loaded", "path", storyPath, "title", eng.story.Title, "scenes", len(eng.story.Scenes))
		}
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	managerOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(eng.locker), session.WithLockTTL(eng.lockTTL))
	}

	eng.runtime = runtime.NewEngine(
		eng.story,
		session.NewManager(eng.store, managerOpts...),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithMatcher(matcher.New(eng.matchOpts...)),
		runtime.WithLoadError(loadErr),
	)
	return eng, nil
}

func invalidThreshold(v float64) bool {
	return math.IsNaN(v) || v < 0
}

// Start creates a session and returns it with its first scene.
// override, when not empty, replaces the story's start scene for this session.
func (e *Engine) Start(ctx context.Context, override string) (*domain.StartResult, error) {
	return e.runtime.Start(ctx, override)
}

// Scene returns the current scene of a session.
func (e *Engine) Scene(ctx context.Context, sessionID string) (domain.ScenePayload, error) {
	return e.runtime.Scene(ctx, sessionID)
}

// Choose resolves a free-form utterance to one of the current scene's choices and applies it.
// When nothing matches the error is a *domain.NoMatchError listing the available choices.
func (e *Engine) Choose(ctx context.Context, sessionID, utterance string) (*domain.ChoiceResult, error) {
	return e.runtime.Choose(ctx, sessionID, utterance)
}

// Reset moves the session back to the story's start scene. History is kept.
func (e *Engine) Reset(ctx context.Context, sessionID string) (domain.ScenePayload, error) {
	return e.runtime.Reset(ctx, sessionID)
}

// Session returns a snapshot of a session, history included.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.runtime.Session(ctx, sessionID)
}

// ListSessions returns the ids of stored sessions.
func (e *Engine) ListSessions(ctx context.Context) ([]string, error) {
	return e.runtime.ListSessions(ctx)
}

// DeleteSession removes a session.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	return e.runtime.DeleteSession(ctx, sessionID)
}

// Story returns the loaded story.
func (e *Engine) Story() *domain.Story {
	return e.runtime.Story()
}

// LoadError returns the story load failure, or nil.
func (e *Engine) LoadError() error {
	return e.runtime.LoadError()
}

// Store returns the session store in use.
func (e *Engine) Store() ports.SessionStore {
	return e.store
}
