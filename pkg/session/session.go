package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
	"github.com/aretw0/framecast/pkg/scheduler"
)

// ErrInvalidControl is returned for control text that is not a frame index.
var ErrInvalidControl = errors.New("invalid control message")

// ErrShuttingDown is returned by Open once Shutdown has been called.
var ErrShuttingDown = errors.New("session manager is shutting down")

// Session is one active delivery connection.
type Session struct {
	ID        string
	CreatedAt time.Time

	sched     *scheduler.Scheduler
	transport ports.TransportSession
	done      chan struct{} // Closed when the task loop exits
}

// Scheduler returns the session's frame scheduler.
func (s *Session) Scheduler() *scheduler.Scheduler { return s.sched }

// Done is closed once the session has been torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Snapshot returns the persisted view of the session.
func (s *Session) Snapshot() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		ID:        s.ID,
		State:     s.sched.State(),
		Mode:      s.sched.Mode(),
		Frame:     s.sched.Frame(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
}

// ParseControl parses a control message: a decimal frame index with
// optional sign, surrounded by optional whitespace.
func ParseControl(text string) (int64, error) {
	index, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidControl, text)
	}
	return index, nil
}
