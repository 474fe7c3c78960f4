package framecast

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/framecast/internal/logging"
	"github.com/aretw0/framecast/pkg/adapters/codec"
	"github.com/aretw0/framecast/pkg/adapters/project"
	"github.com/aretw0/framecast/pkg/compositor"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
	"github.com/aretw0/framecast/pkg/timeline"
)

// Engine is the high-level entry point for the framecast library.
// It loads a project once and renders frames of its timeline on demand.
// The loaded timeline is read-only, so an Engine is safe for concurrent use
// by any number of sessions.
type Engine struct {
	loader     ports.ProjectLoader
	codec      ports.Codec
	assetDir   string
	cacheSize  int
	operator   compositor.Operator
	logger     *slog.Logger
	project    *domain.Project
	resolver   *timeline.Resolver
	compositor *compositor.Compositor
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom ProjectLoader, bypassing the default file loader.
func WithLoader(l ports.ProjectLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCodec replaces the default PNG/JPEG codec.
func WithCodec(c ports.Codec) Option {
	return func(e *Engine) {
		e.codec = c
	}
}

// WithAssetDir sets the directory clip sources are resolved against
// (default: "assets").
func WithAssetDir(dir string) Option {
	return func(e *Engine) {
		e.assetDir = dir
	}
}

// WithAssetCache keeps up to size decoded assets in memory. Zero disables
// the cache.
func WithAssetCache(size int) Option {
	return func(e *Engine) {
		e.cacheSize = size
	}
}

// WithOperator replaces the source-over blend operator.
func WithOperator(op compositor.Operator) Option {
	return func(e *Engine) {
		e.operator = op
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New loads the project and prepares the render pipeline.
// By default, projectPath is read with the YAML/JSON file loader.
// If WithLoader option is provided, projectPath is only used as a label.
func New(ctx context.Context, projectPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{assetDir: timeline.DefaultAssetDir}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if projectPath == "" {
			return nil, fmt.Errorf("projectPath is required when no custom loader is provided")
		}
		eng.loader = project.NewFileLoader(projectPath)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.codec == nil {
		eng.codec = codec.New()
	}
	if eng.cacheSize > 0 {
		eng.codec = codec.NewCache(eng.codec, eng.cacheSize)
	}

	p, err := eng.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	eng.project = p

	eng.Name = p.Name
	if eng.Name == "" && projectPath != "" {
		eng.Name = filepath.Base(projectPath)
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("project", eng.Name)
	}

	compOpts := []compositor.Option{compositor.WithLogger(eng.logger)}
	if eng.operator != nil {
		compOpts = append(compOpts, compositor.WithOperator(eng.operator))
	}
	eng.resolver = timeline.NewResolver(eng.assetDir)
	eng.compositor = compositor.New(eng.codec, compOpts...)

	eng.logger.Debug("Project loaded", "clips", domain.CountClips(p.Root), "asset_dir", eng.assetDir)
	return eng, nil
}

// Project returns the loaded project.
func (e *Engine) Project() *domain.Project { return e.project }

// Codec returns the codec used to decode assets and encode frames.
func (e *Engine) Codec() ports.Codec { return e.codec }

// Resolve returns the asset paths visible at frame, in compositing order.
func (e *Engine) Resolve(frame int) []string {
	return e.resolver.At(e.project.Root, frame)
}

// Render composites the frame at index. It returns domain.ErrNoVisibleClips
// when nothing is visible.
func (e *Engine) Render(ctx context.Context, index int64) (*domain.Buffer, error) {
	paths := e.Resolve(int(index))
	e.logger.Debug("Found visible clips", "frame", index, "count", len(paths))
	return e.compositor.Composite(ctx, paths)
}

// Span reports the frame range [first, end) covered by clips.
func (e *Engine) Span() (first, end int, ok bool) {
	return timeline.Span(e.project.Root)
}
