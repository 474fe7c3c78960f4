package domain

import "fmt"

// SampleFormat describes how a sample is stored.
type SampleFormat string

const (
	// FormatFloat is the working format: normalized float samples in [0,1].
	FormatFloat SampleFormat = "float"
	// FormatUint8 is the 8-bit integer format used for offline output.
	FormatUint8 SampleFormat = "uint8"
)

// Spec describes the geometry and sample type of a raster.
type Spec struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Channels int          `json:"channels"`
	Format   SampleFormat `json:"format"`
}

// Samples returns the number of samples a buffer with this spec holds.
func (s Spec) Samples() int {
	return s.Width * s.Height * s.Channels
}

// SameShape reports whether two specs share width, height and channel count.
func (s Spec) SameShape(o Spec) bool {
	return s.Width == o.Width && s.Height == o.Height && s.Channels == o.Channels
}

// HasAlpha reports whether the last channel carries alpha (gray+alpha or RGBA).
func (s Spec) HasAlpha() bool {
	return s.Channels == 2 || s.Channels == 4
}

func (s Spec) String() string {
	return fmt.Sprintf("%dx%dx%d/%s", s.Width, s.Height, s.Channels, s.Format)
}

// Buffer is a row-major, channel-interleaved raster of normalized samples.
type Buffer struct {
	Spec   Spec
	Pixels []float32
}

// NewBuffer allocates a zeroed buffer for spec.
func NewBuffer(spec Spec) *Buffer {
	return &Buffer{Spec: spec, Pixels: make([]float32, spec.Samples())}
}

// Solid allocates a buffer filled with one pixel value.
// Missing channels in px are zero.
func Solid(spec Spec, px ...float32) *Buffer {
	b := NewBuffer(spec)
	for i := 0; i < len(b.Pixels); i += spec.Channels {
		for c := 0; c < spec.Channels && c < len(px); c++ {
			b.Pixels[i+c] = px[c]
		}
	}
	return b
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	pixels := make([]float32, len(b.Pixels))
	copy(pixels, b.Pixels)
	return &Buffer{Spec: b.Spec, Pixels: pixels}
}

// At returns the samples of the pixel at (x, y).
func (b *Buffer) At(x, y int) []float32 {
	i := (y*b.Spec.Width + x) * b.Spec.Channels
	return b.Pixels[i : i+b.Spec.Channels]
}

// Check verifies that the pixel slice matches the spec.
func (b *Buffer) Check() error {
	if b.Spec.Width <= 0 || b.Spec.Height <= 0 || b.Spec.Channels <= 0 {
		return fmt.Errorf("invalid spec %s", b.Spec)
	}
	if len(b.Pixels) != b.Spec.Samples() {
		return fmt.Errorf("buffer holds %d samples, spec %s needs %d", len(b.Pixels), b.Spec, b.Spec.Samples())
	}
	return nil
}
