package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/framecast"
	"github.com/aretw0/framecast/internal/config"
	"github.com/aretw0/framecast/pkg/adapters/codec"
	"github.com/aretw0/framecast/pkg/registry"
)

// projectCandidates are tried, in order, when no project file is named.
var projectCandidates = []string{"project.yaml", "project.yml", "project.json", "timeline.yaml", "timeline.json"}

// ResolveProjectPath picks the project file to load. An explicit path always
// wins; otherwise the first existing candidate in dir is used, falling back
// to the configured default.
func ResolveProjectPath(explicit, dir, fallback string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range projectCandidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return fallback
}

// NewCodec builds the image codec for the configured output format.
func NewCodec(cfg config.RenderConfig) (*codec.Image, error) {
	format, err := codec.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return codec.New(codec.WithFormat(format)), nil
}

// CreateEngine initializes a framecast engine with standard CLI conventions.
func CreateEngine(ctx context.Context, cfg *config.Config, img *codec.Image, logger *slog.Logger) (*framecast.Engine, error) {
	op, err := registry.Default().Lookup(cfg.Render.Operator)
	if err != nil {
		return nil, err
	}
	engine, err := framecast.New(ctx, cfg.Render.Project,
		framecast.WithOperator(op),
		framecast.WithCodec(img),
		framecast.WithAssetDir(cfg.Render.AssetDir),
		framecast.WithAssetCache(cfg.Render.AssetCache),
		framecast.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
