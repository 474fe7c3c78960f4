package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/framecast/pkg/adapters/codec"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/scheduler"
)

// RenderSummary counts the outcome of an offline render.
type RenderSummary struct {
	Written []string
	Empty   []int64 // Frames with no visible clips
	Failed  []int64
}

// RenderRange composites frames [from, to] and writes each through w.
// Frames with no visible clips are reported and skipped. Any other render
// or write failure is logged and counted; the returned error joins them.
func RenderRange(ctx context.Context, r scheduler.Renderer, w *codec.Writer, from, to int64, out io.Writer, logger *slog.Logger) (RenderSummary, error) {
	var (
		sum  RenderSummary
		errs []error
	)
	if to < from {
		return sum, fmt.Errorf("invalid frame range [%d, %d]", from, to)
	}

	for index := from; index <= to; index++ {
		if err := ctx.Err(); err != nil {
			return sum, errors.Join(append(errs, err)...)
		}

		buf, err := r.Render(ctx, index)
		if errors.Is(err, domain.ErrNoVisibleClips) {
			fmt.Fprintf(out, "No clips found for frame %d\n", index)
			sum.Empty = append(sum.Empty, index)
			continue
		}
		if err != nil {
			logger.Warn("Render failed", "frame", index, "err", err)
			sum.Failed = append(sum.Failed, index)
			errs = append(errs, fmt.Errorf("frame %d: %w", index, err))
			continue
		}

		path, err := w.Write(index, buf)
		if err != nil {
			logger.Warn("Write failed", "frame", index, "err", err)
			sum.Failed = append(sum.Failed, index)
			errs = append(errs, fmt.Errorf("frame %d: %w", index, err))
			continue
		}
		fmt.Fprintf(out, "Saved frame %d to %s\n", index, path)
		sum.Written = append(sum.Written, path)
	}
	return sum, errors.Join(errs...)
}

// PrintResolve lists the asset paths visible at frame, in compositing order.
func PrintResolve(out io.Writer, frame int, paths []string) {
	if len(paths) == 0 {
		fmt.Fprintf(out, "No clips found for frame %d\n", frame)
		return
	}
	fmt.Fprintf(out, "Found %d visible clips at frame %d:\n", len(paths), frame)
	for i, p := range paths {
		fmt.Fprintf(out, "  %d. %s\n", i+1, p)
	}
}
