package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.SessionStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level and
// failures at warn level. A missing session on Load is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, sessionID string, err error) {
	attrs := []any{"op", op}
	if sessionID != "" {
		attrs = append(attrs, "session_id", sessionID)
	}
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.WarnContext(ctx, "Store operation failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "Store operation", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, snap domain.SessionSnapshot) error {
	err := m.next.Save(ctx, snap)
	m.log(ctx, "save", snap.ID, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	snap, err := m.next.Load(ctx, sessionID)
	m.log(ctx, "load", sessionID, err)
	return snap, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, sessionID string) error {
	err := m.next.Delete(ctx, sessionID)
	m.log(ctx, "delete", sessionID, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", err)
	return ids, err
}
