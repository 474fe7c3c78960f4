package ports

import (
	"context"

	"github.com/aretw0/framecast/pkg/domain"
)

// FrameProducer is the delivery side of a session scheduler.
type FrameProducer interface {
	// NextFrame blocks until a frame is available, the session closes
	// (domain.ErrSessionClosed) or ctx is done.
	NextFrame(ctx context.Context) (domain.Frame, error)
}

// ConnectionState is the state reported by a transport.
type ConnectionState string

const (
	ConnectionConnecting   ConnectionState = "connecting"
	ConnectionConnected    ConnectionState = "connected"
	ConnectionDisconnected ConnectionState = "disconnected"
	ConnectionFailed       ConnectionState = "failed"
	ConnectionClosed       ConnectionState = "closed"
)

// EventKind tags a TransportEvent.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventControl
	EventClosed
)

// TransportEvent is a typed message from a transport to its session loop.
type TransportEvent struct {
	Kind  EventKind
	State ConnectionState // EventStateChanged
	Text  string          // EventControl
	Err   error           // EventStateChanged with ConnectionFailed, EventClosed
}

// TransportSession is one live delivery connection.
type TransportSession interface {
	// AddTrack attaches the frame source the transport will pull from.
	AddTrack(p FrameProducer) error

	// Events delivers state changes and inbound control text. The channel is
	// closed when the transport is gone.
	Events() <-chan TransportEvent

	// Close releases the transport.
	Close() error
}
