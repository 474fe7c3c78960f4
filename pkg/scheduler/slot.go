package scheduler

import (
	"context"
	"sync"

	"github.com/aretw0/framecast/pkg/domain"
)

// Slot is a single-frame mailbox with latest-wins semantics.
//
// Put never blocks: an undelivered frame is discarded and counted as a drop.
// Take blocks until a frame is available, the slot is closed or ctx is done.
// After Close every Take returns domain.ErrSessionClosed and the pending
// frame is released.
type Slot struct {
	mu     sync.Mutex
	frame  domain.Frame
	full   bool
	closed bool
	drops  uint64

	ready chan struct{} // Capacity 1, signals a Put
	done  chan struct{} // Closed by Close
}

// NewSlot creates an empty slot.
func NewSlot() *Slot {
	return &Slot{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Put stores f, replacing any undelivered frame. It reports whether a frame
// was dropped. Put on a closed slot is a no-op.
func (s *Slot) Put(f domain.Frame) (dropped bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.full {
		s.drops++
		dropped = true
	}
	s.frame = f
	s.full = true
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return dropped
}

// Take removes and returns the pending frame, blocking until one exists.
func (s *Slot) Take(ctx context.Context) (domain.Frame, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return domain.Frame{}, domain.ErrSessionClosed
		}
		if s.full {
			f := s.frame
			s.frame = domain.Frame{}
			s.full = false
			s.mu.Unlock()
			return f, nil
		}
		s.mu.Unlock()

		select {
		case <-s.ready:
		case <-s.done:
		case <-ctx.Done():
			return domain.Frame{}, ctx.Err()
		}
	}
}

// Close releases the pending frame and wakes every blocked Take.
// It is idempotent.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.frame = domain.Frame{}
	s.full = false
	close(s.done)
}

// Pending reports whether an undelivered frame is waiting.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.full
}

// Drops returns the number of frames replaced before delivery.
func (s *Slot) Drops() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drops
}
