package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProject(t *testing.T) {
	assets := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assets, "a.png"), []byte("png"), 0644))

	t.Run("Valid timeline", func(t *testing.T) {
		p := &domain.Project{Root: domain.NewFolder(0,
			domain.Track{domain.NewClip(0, 5, "a.png"), domain.NewClip(5, 5, "a.png")},
		)}
		assert.NoError(t, ValidateProject(p, assets))
	})

	t.Run("Issues are located", func(t *testing.T) {
		silent := &domain.Clip{Start: 0, Length: 4}
		p := &domain.Project{Root: domain.NewFolder(0,
			domain.Track{domain.NewClip(0, 0, "a.png")},
			domain.Track{domain.NewFolder(10), silent},
			domain.Track{domain.NewClip(0, 3, "ghost.png")},
		)}

		issues := Inspect(p, assets)
		require.Len(t, issues, 4)
		assert.Equal(t, Issue{"timeline.tracks[0][0]", "clip has zero length and is never visible"}, issues[0])
		assert.Equal(t, Issue{"timeline.tracks[1][0]", "folder holds no clips"}, issues[1])
		assert.Equal(t, Issue{"timeline.tracks[1][1]", "clip has no source"}, issues[2])
		assert.Equal(t, "timeline.tracks[2][0]", issues[3].Path)
		assert.Contains(t, issues[3].Message, "ghost.png")

		err := ValidateProject(p, assets)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found 4 issues")
	})

	t.Run("Asset check is skipped without a directory", func(t *testing.T) {
		p := &domain.Project{Root: domain.NewClip(0, 3, "ghost.png")}
		assert.Empty(t, Inspect(p, ""))
	})

	t.Run("Missing timeline", func(t *testing.T) {
		assert.Error(t, ValidateProject(&domain.Project{}, assets))
	})
}
