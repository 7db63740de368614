package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/narrator/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine counters and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted prometheus.Counter
	ChoicesApplied  *prometheus.CounterVec
	NoMatch         prometheus.Counter
	SessionsReset   prometheus.Counter
	MatchScore      *prometheus.HistogramVec
}

// NewMetrics registers the engine metrics in a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "narrator_sessions_started_total",
			Help: "Total number of sessions started.",
		}),
		ChoicesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_choices_applied_total",
			Help: "Total number of applied choices, partitioned by resolution tier.",
		}, []string{"tier"}),
		NoMatch: factory.NewCounter(prometheus.CounterOpts{
			Name: "narrator_choice_no_match_total",
			Help: "Total number of utterances that matched no choice.",
		}),
		SessionsReset: factory.NewCounter(prometheus.CounterOpts{
			Name: "narrator_sessions_reset_total",
			Help: "Total number of session resets.",
		}),
		MatchScore: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "narrator_match_score",
			Help:    "Score of resolved matches, partitioned by resolution tier.",
			Buckets: []float64{0.34, 0.45, 0.6, 0.75, 0.9, 1},
		}, []string{"tier"}),
	}
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that update the metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			m.SessionsStarted.Inc()
		},
		OnChoiceApplied: func(ctx context.Context, e *domain.ChoiceEvent) {
			m.ChoicesApplied.WithLabelValues(e.Tier).Inc()
			m.MatchScore.WithLabelValues(e.Tier).Observe(e.Score)
		},
		OnNoMatch: func(ctx context.Context, e *domain.ChoiceEvent) {
			m.NoMatch.Inc()
		},
		OnReset: func(ctx context.Context, e *domain.SessionEvent) {
			m.SessionsReset.Inc()
		},
	}
}

// ChainHooks returns hooks that call each of the given hooks in order.
func ChainHooks(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			for _, h := range hooks {
				if h.OnSessionStart != nil {
					h.OnSessionStart(ctx, e)
				}
			}
		},
		OnChoiceApplied: func(ctx context.Context, e *domain.ChoiceEvent) {
			for _, h := range hooks {
				if h.OnChoiceApplied != nil {
					h.OnChoiceApplied(ctx, e)
				}
			}
		},
		OnNoMatch: func(ctx context.Context, e *domain.ChoiceEvent) {
			for _, h := range hooks {
				if h.OnNoMatch != nil {
					h.OnNoMatch(ctx, e)
				}
			}
		},
		OnReset: func(ctx context.Context, e *domain.SessionEvent) {
			for _, h := range hooks {
				if h.OnReset != nil {
					h.OnReset(ctx, e)
				}
			}
		},
	}
}
