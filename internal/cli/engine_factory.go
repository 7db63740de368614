package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/narrator"
	"github.com/aretw0/narrator/internal/config"
	"github.com/aretw0/narrator/pkg/adapters/file"
	"github.com/aretw0/narrator/pkg/adapters/redis"
	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/ports"
	"github.com/aretw0/narrator/pkg/runner"
	"github.com/aretw0/narrator/pkg/tools"
)

// SessionDir is where file-backed sessions live, relative to the working directory.
var SessionDir = filepath.Join(".narrator", "sessions")

// Backend is the session persistence selected by the configuration.
type Backend struct {
	Store  ports.SessionStore
	Locker ports.DistributedLocker
	Kind   string

	close func() error
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend returns a Redis backend when an address is configured, otherwise
// the fallback store. A nil fallback leaves the engine on its in-memory default.
func OpenBackend(cfg config.Config, fallback ports.SessionStore) *Backend {
	if cfg.UseRedis() {
		opts := []redis.Option{redis.WithPrefix(cfg.RedisPrefix)}
		if cfg.SessionTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.SessionTTL))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), cfg.RedisPrefix),
			Kind:   "redis",
			close:  store.Close,
		}
	}
	if fallback != nil {
		return &Backend{Store: fallback, Kind: "file"}
	}
	return &Backend{Kind: "memory"}
}

// FileStore returns the store used by play and the session commands.
func FileStore() *file.Store {
	return file.New(SessionDir)
}

// NewEngine initializes an engine with the standard CLI conventions.
func NewEngine(cfg config.Config, logger *slog.Logger, backend *Backend, hooks domain.LifecycleHooks) (*narrator.Engine, error) {
	opts := []narrator.Option{
		narrator.WithLogger(logger),
		narrator.WithThresholds(cfg.SimilarityCutoff, cfg.OverlapThreshold),
		narrator.WithLifecycleHooks(hooks),
	}
	if backend != nil && backend.Store != nil {
		opts = append(opts, narrator.WithStore(backend.Store))
	}
	if backend != nil && backend.Locker != nil {
		opts = append(opts, narrator.WithLocker(backend.Locker, cfg.LockTTL))
	}

	engine, err := narrator.New(cfg.StoryPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// NewService wraps engine in the tool service with the configured input limit.
func NewService(engine tools.Engine, cfg config.Config, logger *slog.Logger) *tools.Service {
	return tools.NewService(engine,
		tools.WithSanitizer(runner.NewSanitizer(cfg.MaxInputSize)),
		tools.WithLogger(logger),
	)
}
