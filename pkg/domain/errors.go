package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad is the root of asset load failures (missing, corrupt, unreadable).
	ErrLoad = errors.New("asset load failed")

	// ErrNoVisibleClips is returned when nothing is visible at a frame.
	ErrNoVisibleClips = errors.New("no visible clips")

	// ErrCompositing is the root of compositing failures.
	ErrCompositing = errors.New("compositing failed")

	// ErrDimensionMismatch is returned when an asset does not match the canonical spec.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrTransport is the root of transport failures. Fatal to the owning session only.
	ErrTransport = errors.New("transport failure")

	// ErrProjectLoad is the root of project load failures. Fatal at startup.
	ErrProjectLoad = errors.New("project load failed")

	// ErrEncode is returned when a buffer cannot be encoded.
	ErrEncode = errors.New("encode failed")

	// ErrSessionClosed is returned to consumers of a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionNotFound is returned when a session ID is not registered.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTransition is returned for illegal lifecycle transitions.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnknownNode is returned when a timeline node is neither a Folder nor a Clip.
	ErrUnknownNode = errors.New("unknown timeline node")
)

// LoadError reports a failure to load one asset.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// CompositingError reports a failure while blending an asset.
type CompositingError struct {
	Path string
	Err  error
}

func (e *CompositingError) Error() string {
	return fmt.Sprintf("composite %s: %v", e.Path, e.Err)
}

func (e *CompositingError) Unwrap() []error { return []error{ErrCompositing, e.Err} }

// TransportError reports a failure of the transport owning a session.
type TransportError struct {
	SessionID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session %s: transport: %v", e.SessionID, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// ProjectLoadError reports an unreadable or malformed project.
type ProjectLoadError struct {
	Path string
	Err  error
}

func (e *ProjectLoadError) Error() string {
	return fmt.Sprintf("project %s: %v", e.Path, e.Err)
}

func (e *ProjectLoadError) Unwrap() []error { return []error{ErrProjectLoad, e.Err} }

// EncodeError reports a buffer that could not be encoded.
type EncodeError struct {
	Spec Spec
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Spec, e.Err)
}

func (e *EncodeError) Unwrap() []error { return []error{ErrEncode, e.Err} }
