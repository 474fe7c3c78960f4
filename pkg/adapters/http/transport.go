package http

import (
	"errors"
	"sync"

	"github.com/aretw0/framecast/pkg/ports"
)

// eventBuffer bounds events queued for the session loop.
const eventBuffer = 16

// errViewerAttached is returned when a second viewer opens a stream.
var errViewerAttached = errors.New("a viewer is already attached")

// Transport is the HTTP implementation of ports.TransportSession. A session
// is offered with POST /sessions and connected once a viewer opens its
// multipart stream.
type Transport struct {
	events chan ports.TransportEvent
	done   chan struct{}

	mu       sync.Mutex
	producer ports.FrameProducer
	attached bool
	closed   bool
}

// NewTransport creates an unattached transport.
func NewTransport() *Transport {
	return &Transport{
		events: make(chan ports.TransportEvent, eventBuffer),
		done:   make(chan struct{}),
	}
}

// AddTrack attaches the frame source the stream pulls from.
func (t *Transport) AddTrack(p ports.FrameProducer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return errors.New("transport closed")
	}
	if t.producer != nil {
		return errors.New("track already attached")
	}
	t.producer = p
	return nil
}

// Events delivers state changes and control text to the session loop.
func (t *Transport) Events() <-chan ports.TransportEvent { return t.events }

// Close releases the transport and ends an attached stream. Safe to call
// more than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.done)
	}
	return nil
}

// Done is closed once the transport is closed.
func (t *Transport) Done() <-chan struct{} { return t.done }

// emit queues ev unless the transport is closed.
func (t *Transport) emit(ev ports.TransportEvent) {
	select {
	case t.events <- ev:
	case <-t.done:
	}
}

// attach claims the transport for one viewer.
func (t *Transport) attach() (ports.FrameProducer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errors.New("transport closed")
	}
	if t.attached {
		return nil, errViewerAttached
	}
	if t.producer == nil {
		return nil, errors.New("no track attached")
	}
	t.attached = true
	return t.producer, nil
}
