package memory

import (
	"context"

	"github.com/aretw0/framecast/pkg/domain"
)

// Loader implements ports.ProjectLoader for a timeline built in code.
type Loader struct {
	project *domain.Project
}

// NewLoader creates a Loader that serves project.
func NewLoader(project *domain.Project) *Loader {
	return &Loader{project: project}
}

// NewFromRoot creates a Loader for an unnamed project with the given root.
// This improves DX for tests.
func NewFromRoot(root domain.Node) *Loader {
	return &Loader{project: &domain.Project{Name: "memory", Root: root}}
}

// Load returns the configured project after validating it.
func (l *Loader) Load(ctx context.Context) (*domain.Project, error) {
	if l.project == nil {
		return nil, &domain.ProjectLoadError{Path: "memory", Err: domain.ErrProjectLoad}
	}
	if err := domain.Validate(l.project.Root); err != nil {
		return nil, &domain.ProjectLoadError{Path: "memory", Err: err}
	}
	return l.project, nil
}
