package domain

import (
	"context"
	"time"
)

// FrameEvent describes one production cycle of a scheduler.
type FrameEvent struct {
	SessionID string
	Index     int64
	Timestamp time.Duration
	Duration  time.Duration // Time spent rendering
	Fallback  bool
	Err       error
}

// StateEvent describes a session lifecycle transition.
type StateEvent struct {
	SessionID string
	From      SessionState
	To        SessionState
}

// LifecycleHooks defines callbacks for delivery observability.
// Every field is optional.
type LifecycleHooks struct {
	OnFrameRendered func(context.Context, *FrameEvent)
	OnFrameDropped  func(context.Context, string) // session ID
	OnFrameSent     func(context.Context, *FrameEvent)
	OnStateChange   func(context.Context, *StateEvent)
}
