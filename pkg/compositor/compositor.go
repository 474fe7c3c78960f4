package compositor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/framecast/internal/logging"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
)

// Compositor blends the assets visible at a frame into one buffer.
//
// Assets are decoded through the Codec in list order. The first asset's spec
// is canonical; later assets with a different shape are rejected (logged and
// skipped) rather than resampled.
type Compositor struct {
	codec    ports.Codec
	operator Operator
	logger   *slog.Logger
}

// Option configures the Compositor.
type Option func(*Compositor)

// WithOperator replaces the default source-over operator.
func WithOperator(op Operator) Option {
	return func(c *Compositor) {
		c.operator = op
	}
}

// WithLogger configures a logger for skipped assets.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compositor) {
		c.logger = logger
	}
}

// New creates a Compositor that loads assets through codec.
func New(codec ports.Codec, opts ...Option) *Compositor {
	c := &Compositor{
		codec:    codec,
		operator: Over,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Composite loads and blends paths in order, later assets over earlier ones.
//
// It returns domain.ErrNoVisibleClips for an empty list and a *domain.LoadError
// when the first asset cannot be loaded. Failures of later assets never abort
// the frame.
func (c *Compositor) Composite(ctx context.Context, paths []string) (*domain.Buffer, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoVisibleClips
	}

	first, err := c.load(ctx, paths[0])
	if err != nil {
		return nil, err
	}
	canonical := first.Spec
	// Codec output is never mutated.
	result := first.Clone()

	for _, path := range paths[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		layer, err := c.load(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			c.logger.Warn("Skipping asset", "path", path, "err", err)
			continue
		}

		if !layer.Spec.SameShape(canonical) {
			err := &domain.LoadError{
				Path: path,
				Err:  fmt.Errorf("%w: got %s, canonical %s", domain.ErrDimensionMismatch, layer.Spec, canonical),
			}
			c.logger.Warn("Skipping asset", "path", path, "err", err)
			continue
		}

		c.operator(result, layer)
	}

	return result, nil
}

func (c *Compositor) load(ctx context.Context, path string) (*domain.Buffer, error) {
	buf, err := c.codec.Decode(ctx, path)
	if err != nil {
		var le *domain.LoadError
		if errors.As(err, &le) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	if err := buf.Check(); err != nil {
		return nil, &domain.LoadError{Path: path, Err: err}
	}
	return buf, nil
}
