package ports

import (
	"context"

	"github.com/aretw0/framecast/pkg/domain"
)

// Codec is the Image Codec Service.
type Codec interface {
	// Decode loads an asset into a normalized float buffer.
	// Failures are reported as *domain.LoadError.
	Decode(ctx context.Context, path string) (*domain.Buffer, error)

	// Encode serializes a buffer to bytes.
	// Failures are reported as *domain.EncodeError.
	Encode(buf *domain.Buffer) ([]byte, error)

	// ContentType is the MIME type of Encode output.
	ContentType() string
}
