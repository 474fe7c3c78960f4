package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/framecast/pkg/domain"
)

// LogHooks returns hooks that log state changes at Info and frame events
// at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFrameRendered: func(ctx context.Context, e *domain.FrameEvent) {
			if e.Fallback {
				logger.Debug("frame_fallback", "session_id", e.SessionID, "frame", e.Index, "err", e.Err)
				return
			}
			logger.Debug("frame_rendered",
				"session_id", e.SessionID,
				"frame", e.Index,
				"pts", e.Timestamp,
				"duration", e.Duration,
			)
		},
		OnFrameDropped: func(ctx context.Context, sessionID string) {
			logger.Debug("frame_dropped", "session_id", sessionID)
		},
		OnStateChange: func(ctx context.Context, e *domain.StateEvent) {
			logger.Info("session_state", "session_id", e.SessionID, "from", e.From, "to", e.To)
		},
	}
}

// Compose returns hooks that call each non-nil hook of every set in order.
func Compose(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks

	var rendered, sent []func(context.Context, *domain.FrameEvent)
	var dropped []func(context.Context, string)
	var states []func(context.Context, *domain.StateEvent)
	for _, h := range sets {
		if h.OnFrameRendered != nil {
			rendered = append(rendered, h.OnFrameRendered)
		}
		if h.OnFrameSent != nil {
			sent = append(sent, h.OnFrameSent)
		}
		if h.OnFrameDropped != nil {
			dropped = append(dropped, h.OnFrameDropped)
		}
		if h.OnStateChange != nil {
			states = append(states, h.OnStateChange)
		}
	}

	if len(rendered) > 0 {
		out.OnFrameRendered = func(ctx context.Context, e *domain.FrameEvent) {
			for _, fn := range rendered {
				fn(ctx, e)
			}
		}
	}
	if len(sent) > 0 {
		out.OnFrameSent = func(ctx context.Context, e *domain.FrameEvent) {
			for _, fn := range sent {
				fn(ctx, e)
			}
		}
	}
	if len(dropped) > 0 {
		out.OnFrameDropped = func(ctx context.Context, id string) {
			for _, fn := range dropped {
				fn(ctx, id)
			}
		}
	}
	if len(states) > 0 {
		out.OnStateChange = func(ctx context.Context, e *domain.StateEvent) {
			for _, fn := range states {
				fn(ctx, e)
			}
		}
	}
	return out
}
