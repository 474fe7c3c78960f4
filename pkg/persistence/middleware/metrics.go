package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Results recorded by the metrics middleware.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

type metricsMiddleware struct {
	next ports.SessionStore
	ops  *prometheus.CounterVec
}

// NewMetricsMiddleware counts operations into ops, which must carry the
// labels "op" and "result".
func NewMetricsMiddleware(ops *prometheus.CounterVec) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &metricsMiddleware{next: next, ops: ops}
	}
}

func (m *metricsMiddleware) record(op string, err error) {
	result := ResultOK
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		result = ResultNotFound
	case err != nil:
		result = ResultError
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *metricsMiddleware) Save(ctx context.Context, snap domain.SessionSnapshot) error {
	err := m.next.Save(ctx, snap)
	m.record("save", err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	snap, err := m.next.Load(ctx, sessionID)
	m.record("load", err)
	return snap, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	err := m.next.Delete(ctx, sessionID)
	m.record("delete", err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	ids, err := m.next.List(ctx)
	m.record("list", err)
	return ids, err
}
