package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/aretw0/framecast/pkg/domain"
)

// Format selects the encoder.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts "png", "jpeg" and "jpg". Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (must be png or jpeg)", s)
	}
}

// Image decodes PNG and JPEG files and encodes buffers in one Format.
type Image struct {
	format      Format
	jpegQuality int
	compression png.CompressionLevel
}

// Option configures the Image codec.
type Option func(*Image)

// WithFormat selects the encode format.
func WithFormat(f Format) Option {
	return func(c *Image) {
		c.format = f
	}
}

// WithJPEGQuality sets the JPEG quality (1-100). Only used for JPEG output.
func WithJPEGQuality(q int) Option {
	return func(c *Image) {
		if q >= 1 && q <= 100 {
			c.jpegQuality = q
		}
	}
}

// WithCompression sets the PNG compression level.
func WithCompression(level png.CompressionLevel) Option {
	return func(c *Image) {
		c.compression = level
	}
}

// New creates an Image codec. The default output is PNG.
func New(opts ...Option) *Image {
	c := &Image{
		format:      FormatPNG,
		jpegQuality: 90,
		compression: png.DefaultCompression,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decode reads the asset at path.
func (c *Image) Decode(ctx context.Context, path string) (*domain.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	return FromImage(img), nil
}

// Encode serializes buf in the configured format.
func (c *Image) Encode(buf *domain.Buffer) ([]byte, error) {
	img, err := ToImage(buf)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	switch c.format {
	case FormatJPEG:
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: c.jpegQuality})
	default:
		enc := png.Encoder{CompressionLevel: c.compression}
		err = enc.Encode(&out, img)
	}
	if err != nil {
		return nil, &domain.EncodeError{Spec: buf.Spec, Err: err}
	}
	return out.Bytes(), nil
}

// ContentType returns the MIME type of Encode output.
func (c *Image) ContentType() string {
	if c.format == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Extension returns the file extension for Encode output, without the dot.
func (c *Image) Extension() string {
	if c.format == FormatJPEG {
		return "jpg"
	}
	return "png"
}
