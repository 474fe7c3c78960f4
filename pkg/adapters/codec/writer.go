package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
)

// DefaultOutputDir is where offline renders are written.
const DefaultOutputDir = "outputs"

// Writer saves rendered frames to disk as frame_NNNN.<ext>.
// Safe for concurrent use.
type Writer struct {
	dir    string
	codec  ports.Codec
	ext    string
	saved  atomic.Uint64
	failed atomic.Uint64
}

// NewWriter creates dir if needed and returns a Writer that encodes with
// codec. ext is the file extension without the dot.
func NewWriter(dir string, codec ports.Codec, ext string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if ext == "" {
		ext = "png"
	}
	return &Writer{dir: dir, codec: codec, ext: ext}, nil
}

// Path returns the output path for a frame index.
func (w *Writer) Path(index int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("frame_%04d.%s", index, w.ext))
}

// Write encodes buf and stores it under the frame's file name.
func (w *Writer) Write(index int64, buf *domain.Buffer) (string, error) {
	data, err := w.codec.Encode(buf)
	if err != nil {
		w.failed.Add(1)
		return "", err
	}

	path := w.Path(index)
	if err := os.WriteFile(path, data, 0644); err != nil {
		w.failed.Add(1)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.saved.Add(1)
	return path, nil
}

// Saved returns the number of frames written.
func (w *Writer) Saved() uint64 { return w.saved.Load() }

// Failed returns the number of frames that could not be written.
func (w *Writer) Failed() uint64 { return w.failed.Load() }
