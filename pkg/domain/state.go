package domain

import (
	"fmt"
	"time"
)

// SessionState is the lifecycle of a delivery session.
type SessionState string

const (
	StateCreated     SessionState = "created"
	StateNegotiating SessionState = "negotiating"
	StateLive        SessionState = "live"    // Frames are produced only here
	StateClosing     SessionState = "closing" // Orderly shutdown in progress
	StateFailed      SessionState = "failed"  // Transport failure, shutdown in progress
	StateClosed      SessionState = "closed"  // Sink state
)

var transitions = map[SessionState][]SessionState{
	StateCreated:     {StateNegotiating, StateClosing, StateFailed},
	StateNegotiating: {StateLive, StateClosing, StateFailed},
	StateLive:        {StateClosing, StateFailed},
	StateClosing:     {StateClosed},
	StateFailed:      {StateClosed},
}

// CanTransition reports whether from -> to is a legal edge.
func (s SessionState) CanTransition(to SessionState) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the state is past LIVE.
func (s SessionState) Terminal() bool {
	return s == StateClosing || s == StateFailed || s == StateClosed
}

// Transition validates from -> to.
func Transition(from, to SessionState) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// DeliveryMode selects how a scheduler produces frames.
type DeliveryMode string

const (
	// ModePaced renders at a fixed wall-clock cadence.
	ModePaced DeliveryMode = "paced"
	// ModeOnDemand renders whenever the frame pointer changes.
	ModeOnDemand DeliveryMode = "on-demand"
)

// ParseMode parses a delivery mode name.
func ParseMode(s string) (DeliveryMode, error) {
	switch DeliveryMode(s) {
	case ModePaced, "":
		return ModePaced, nil
	case ModeOnDemand, "ondemand":
		return ModeOnDemand, nil
	}
	return "", fmt.Errorf("unknown delivery mode %q", s)
}

// Frame is one rendered frame ready for delivery.
type Frame struct {
	// Index is the content frame that was rendered.
	Index int64
	// Timestamp is the presentation time relative to the session going live.
	Timestamp time.Duration
	Buffer    *Buffer
	// Fallback marks a placeholder substituted for a failed render.
	Fallback bool
}

// SessionSnapshot is the persisted view of a session. It never carries pixels.
type SessionSnapshot struct {
	ID        string       `json:"id"`
	State     SessionState `json:"state"`
	Mode      DeliveryMode `json:"mode"`
	Frame     int64        `json:"frame"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
