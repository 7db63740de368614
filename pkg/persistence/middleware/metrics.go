package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/narrator/pkg/domain"
	"github.com/aretw0/narrator/pkg/ports"
)

type storeMetrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

type metricsMiddleware struct {
	next    ports.SessionStore
	metrics *storeMetrics
}

// NewMetricsMiddleware records the latency and failures of every store call on reg.
// A missing session on Load is not counted as a failure.
func NewMetricsMiddleware(reg prometheus.Registerer) Middleware {
	factory := promauto.With(reg)
	m := &storeMetrics{
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "narrator_store_operation_seconds",
			Help:    "Latency of session store operations.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"op"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_store_errors_total",
			Help: "Session store operations that returned an error.",
		}, []string{"op"}),
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &metricsMiddleware{next: next, metrics: m}
	}
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	m.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.metrics.errors.WithLabelValues(op).Inc()
	}
}

func (m *metricsMiddleware) Save(ctx context.Context, session *domain.Session) error {
	start := time.Now()
	err := m.next.Save(ctx, session)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	start := time.Now()
	sess, err := m.next.Load(ctx, sessionID)
	m.observe("load", start, err)
	return sess, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe("list", start, err)
	return ids, err
}
