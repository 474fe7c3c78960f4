package timeline_test

import (
	"sync"
	"testing"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/timeline"
	"github.com/stretchr/testify/assert"
)

func track(nodes ...domain.Node) domain.Track { return domain.Track(nodes) }

func TestResolve_SingleClip(t *testing.T) {
	root := domain.NewFolder(0, track(domain.NewClip(10, 5, "a.png")))
	r := timeline.NewResolver("assets")

	assert.Equal(t, []string{"assets/a.png"}, r.At(root, 12))
	assert.Equal(t, []string{"assets/a.png"}, r.At(root, 10), "start is inclusive")
	assert.Equal(t, []string{"assets/a.png"}, r.At(root, 14))
	assert.Empty(t, r.At(root, 15), "end is exclusive")
	assert.Empty(t, r.At(root, 9))
}

func TestResolve_NestedFolder(t *testing.T) {
	inner := domain.NewFolder(100, track(domain.NewClip(5, 10, "b.png")))
	root := domain.NewFolder(0, track(inner))
	r := timeline.NewResolver("assets")

	assert.Equal(t, []string{"assets/b.png"}, r.At(root, 107))
	assert.Empty(t, r.At(root, 104))
	assert.Empty(t, r.At(root, 115))
}

func TestResolve_OffsetsAccumulateThroughEveryLevel(t *testing.T) {
	// root(3) -> a(20) -> b(100) -> clip(C=5, L=4): visible on [128, 132)
	clip := domain.NewClip(5, 4, "deep.png")
	b := domain.NewFolder(100, track(clip))
	a := domain.NewFolder(20, track(b))
	root := domain.NewFolder(3, track(a))

	for frame := 120; frame < 140; frame++ {
		got := timeline.Resolve(root, frame, 0, "")
		if frame >= 128 && frame < 132 {
			assert.Equal(t, []string{"deep.png"}, got, "frame %d", frame)
		} else {
			assert.Empty(t, got, "frame %d", frame)
		}
	}
}

func TestResolve_InheritedOffset(t *testing.T) {
	root := domain.NewFolder(10, track(domain.NewClip(0, 1, "x.png")))

	assert.Equal(t, []string{"x.png"}, timeline.Resolve(root, 15, 5, ""))
	assert.Empty(t, timeline.Resolve(root, 10, 5, ""))
}

func TestResolve_OrderIsDepthFirstTrackThenClip(t *testing.T) {
	root := domain.NewFolder(0,
		track(
			domain.NewClip(0, 10, "t1-c1.png"),
			domain.NewFolder(0, track(domain.NewClip(0, 10, "t1-f-c1.png")), track(domain.NewClip(0, 10, "t1-f-t2.png"))),
			domain.NewClip(0, 10, "t1-c2.png"),
		),
		track(domain.NewClip(0, 10, "t2-c1.png")),
	)
	want := []string{"t1-c1.png", "t1-f-c1.png", "t1-f-t2.png", "t1-c2.png", "t2-c1.png"}

	for i := 0; i < 5; i++ {
		assert.Equal(t, want, timeline.Resolve(root, 3, 0, ""))
	}
}

func TestResolve_SkipsMissingSourceAndZeroLength(t *testing.T) {
	root := domain.NewFolder(0, track(
		&domain.Clip{Start: 0, Length: 10},
		domain.NewClip(0, 0, "never.png"),
		domain.NewClip(0, 10, ""),
		domain.NewClip(0, 10, "ok.png"),
	))

	assert.Equal(t, []string{"ok.png"}, timeline.Resolve(root, 0, 0, ""))
}

func TestResolve_OutOfRangeBranchDoesNotAbortSiblings(t *testing.T) {
	root := domain.NewFolder(0,
		track(domain.NewFolder(500, track(domain.NewClip(0, 1, "late.png")))),
		track(domain.NewClip(0, 1, "early.png")),
	)

	assert.Equal(t, []string{"early.png"}, timeline.Resolve(root, 0, 0, ""))
}

func TestResolve_PathsUseForwardSlashes(t *testing.T) {
	root := domain.NewFolder(0, track(
		domain.NewClip(0, 1, "layers/bg.png"),
		domain.NewClip(0, 1, "./fg.png"),
	))

	assert.Equal(t, []string{"media/assets/layers/bg.png", "media/assets/fg.png"},
		timeline.NewResolver("media/assets/").At(root, 0))
	assert.Equal(t, []string{"layers/bg.png", "fg.png"}, timeline.NewResolver("").At(root, 0))
}

func TestResolve_ClipRoot(t *testing.T) {
	clip := domain.NewClip(2, 2, "solo.png")

	assert.Equal(t, []string{"solo.png"}, timeline.Resolve(clip, 3, 0, ""))
	assert.Empty(t, timeline.Resolve(clip, 4, 0, ""))
}

func TestResolve_Concurrent(t *testing.T) {
	root := domain.NewFolder(0, track(domain.NewClip(0, 100, "a.png"), domain.NewClip(50, 100, "b.png")))
	r := timeline.NewResolver("assets")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(frame int) {
			defer wg.Done()
			got := r.At(root, frame)
			if frame < 50 {
				assert.Equal(t, []string{"assets/a.png"}, got)
			} else {
				assert.Equal(t, []string{"assets/a.png", "assets/b.png"}, got)
			}
		}(i * 3)
	}
	wg.Wait()
}

func TestSpan(t *testing.T) {
	root := domain.NewFolder(10,
		track(domain.NewClip(0, 5, "a.png")),
		track(domain.NewFolder(100, track(domain.NewClip(5, 10, "b.png")))),
		track(domain.NewClip(-20, 0, "empty.png")),
	)

	first, end, ok := timeline.Span(root)
	assert.True(t, ok)
	assert.Equal(t, 10, first)
	assert.Equal(t, 125, end)

	_, _, ok = timeline.Span(domain.NewFolder(0))
	assert.False(t, ok)
}
