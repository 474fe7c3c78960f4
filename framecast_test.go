package framecast_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/aretw0/framecast"
	"github.com/aretw0/framecast/pkg/adapters/memory"
	"github.com/aretw0/framecast/pkg/compositor"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scheduler.Renderer = (*framecast.Engine)(nil)

func solidPNG(t *testing.T, dir, name string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// setup writes red.png (opaque) and blue.png (alpha 0.5) and returns the
// asset directory.
func setup(t *testing.T) string {
	dir := t.TempDir()
	solidPNG(t, dir, "red.png", color.NRGBA{R: 255, A: 255})
	solidPNG(t, dir, "blue.png", color.NRGBA{B: 255, A: 128})
	return dir
}

func TestEngine_RenderBlendsInTimelineOrder(t *testing.T) {
	assets := setup(t)
	root := domain.NewFolder(0,
		domain.Track{domain.NewClip(0, 10, "red.png")},
		domain.Track{domain.NewFolder(5, domain.Track{domain.NewClip(0, 10, "blue.png")})},
	)
	eng, err := framecast.New(context.Background(), "", framecast.WithLoader(memory.NewFromRoot(root)), framecast.WithAssetDir(assets))
	require.NoError(t, err)

	assert.Equal(t, []string{path.Join(assets, "red.png")}, eng.Resolve(2))
	assert.Equal(t, []string{path.Join(assets, "red.png"), path.Join(assets, "blue.png")}, eng.Resolve(7))

	buf, err := eng.Render(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 1}, buf.At(0, 0))

	buf, err = eng.Render(context.Background(), 7)
	require.NoError(t, err)
	px := buf.At(3, 3)
	a := float32(128) / 255
	assert.InDelta(t, 1-a, px[0], 1e-5)
	assert.InDelta(t, 0, px[1], 1e-5)
	assert.InDelta(t, a, px[2], 1e-5)
	assert.InDelta(t, 1, px[3], 1e-5)

	buf, err = eng.Render(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 1, a}, buf.At(0, 0), "blue alone survives after red ends")

	_, err = eng.Render(context.Background(), 20)
	assert.ErrorIs(t, err, domain.ErrNoVisibleClips)

	first, end, ok := eng.Span()
	require.True(t, ok)
	assert.Equal(t, 0, first)
	assert.Equal(t, 15, end)
}

func TestEngine_FromFile(t *testing.T) {
	assets := setup(t)
	file := filepath.Join(t.TempDir(), "scene.yaml")
	doc := `
name: scene
timeline:
  role: folder
  tracks:
    - clips:
        - {role: clip, start: 0, length: 3, source: red.png}
        - {role: clip, start: 0, length: 3, source: missing.png}
`
	require.NoError(t, os.WriteFile(file, []byte(doc), 0644))

	eng, err := framecast.New(context.Background(), file, framecast.WithAssetDir(assets), framecast.WithAssetCache(8))
	require.NoError(t, err)
	assert.Equal(t, "scene", eng.Name)
	assert.Equal(t, 2, domain.CountClips(eng.Project().Root))

	buf, err := eng.Render(context.Background(), 1)
	require.NoError(t, err, "a missing later asset is skipped")
	assert.Equal(t, []float32{1, 0, 0, 1}, buf.At(1, 1))

	data, err := eng.Codec().Encode(buf)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestEngine_WithOperator(t *testing.T) {
	assets := setup(t)
	root := domain.NewFolder(0, domain.Track{
		domain.NewClip(0, 1, "red.png"),
		domain.NewClip(0, 1, "blue.png"),
	})
	eng, err := framecast.New(context.Background(), "inline",
		framecast.WithLoader(memory.NewFromRoot(root)),
		framecast.WithAssetDir(assets),
		framecast.WithOperator(compositor.Replace),
	)
	require.NoError(t, err)

	buf, err := eng.Render(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, float32(0), buf.At(0, 0)[0])
}

func TestEngine_LoadFailures(t *testing.T) {
	_, err := framecast.New(context.Background(), "")
	assert.Error(t, err)

	_, err = framecast.New(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, domain.ErrProjectLoad)

	_, err = framecast.New(context.Background(), "", framecast.WithLoader(memory.NewFromRoot(nil)))
	assert.ErrorIs(t, err, domain.ErrProjectLoad)
}
