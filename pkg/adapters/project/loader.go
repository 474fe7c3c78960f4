package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/framecast/pkg/domain"
)

// FileLoader implements ports.ProjectLoader for a project file on disk.
type FileLoader struct {
	Path string
}

// NewFileLoader creates a loader for path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads, parses and validates the project file. Unnamed projects take
// the file name without extension.
func (l *FileLoader) Load(ctx context.Context) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, &domain.ProjectLoadError{Path: l.Path, Err: err}
	}

	project, err := Parse(data)
	if err != nil {
		return nil, &domain.ProjectLoadError{Path: l.Path, Err: err}
	}
	if err := domain.Validate(project.Root); err != nil {
		return nil, &domain.ProjectLoadError{Path: l.Path, Err: err}
	}

	if project.Name == "" {
		base := filepath.Base(l.Path)
		project.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return project, nil
}
