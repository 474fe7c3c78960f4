package ports

import (
	"context"

	"github.com/aretw0/framecast/pkg/domain"
)

// ProjectLoader defines how the renderer obtains its timeline.
// Implementations return a *domain.ProjectLoadError on failure.
type ProjectLoader interface {
	Load(ctx context.Context) (*domain.Project, error)
}
