package tests

import (
	"context"
	"testing"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
)

// ProjectLoaderContractTest is a reusable test suite that verifies if an adapter
// complies with ports.ProjectLoader. wantClips is the number of clips the
// loaded timeline must contain.
func ProjectLoaderContractTest(t *testing.T, loader ports.ProjectLoader, wantClips int) {
	t.Helper()

	t.Run("Load_Success", func(t *testing.T) {
		project, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading project: %v", err)
		}
		if project.Root == nil {
			t.Fatal("loaded project has no root node")
		}
		if got := domain.CountClips(project.Root); got != wantClips {
			t.Errorf("clip count mismatch. got %d, want %d", got, wantClips)
		}
		if err := domain.Validate(project.Root); err != nil {
			t.Errorf("loaded project does not validate: %v", err)
		}
	})

	t.Run("Load_Repeatable", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if domain.CountClips(first.Root) != domain.CountClips(second.Root) {
			t.Error("repeated loads produced different timelines")
		}
	})
}
