package scheduler

import "github.com/aretw0/framecast/pkg/domain"

// Default placeholder geometry.
const (
	DefaultFallbackWidth  = 640
	DefaultFallbackHeight = 360
)

// NewFallback builds a solid RGBA placeholder.
func NewFallback(width, height int, r, g, b, a float32) *domain.Buffer {
	spec := domain.Spec{Width: width, Height: height, Channels: 4, Format: domain.FormatFloat}
	return domain.Solid(spec, r, g, b, a)
}

// DefaultFallback is an opaque black 640x360 frame.
func DefaultFallback() *domain.Buffer {
	return NewFallback(DefaultFallbackWidth, DefaultFallbackHeight, 0, 0, 0, 1)
}
