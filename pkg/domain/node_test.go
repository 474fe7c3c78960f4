package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ok := domain.NewFolder(0, domain.Track{domain.NewClip(0, 3, "a.png"), domain.NewFolder(5)})
	assert.NoError(t, domain.Validate(ok))

	bad := domain.NewFolder(0, domain.Track{domain.NewFolder(1, domain.Track{domain.NewClip(0, -1, "a.png")})})
	err := domain.Validate(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectLoad)

	assert.ErrorIs(t, domain.Validate(nil), domain.ErrProjectLoad)
}

func TestWalkOrderAndCount(t *testing.T) {
	root := domain.NewFolder(0,
		domain.Track{domain.NewClip(0, 1, "a"), domain.NewFolder(0, domain.Track{domain.NewClip(0, 1, "b")})},
		domain.Track{domain.NewClip(0, 1, "c")},
	)

	var sources []string
	err := domain.Walk(root, func(n domain.Node) error {
		if c, ok := n.(*domain.Clip); ok {
			sources = append(sources, c.Source)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, sources)
	assert.Equal(t, 3, domain.CountClips(root))
}

func TestWalkStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	visits := 0
	root := domain.NewFolder(0, domain.Track{domain.NewClip(0, 1, "a"), domain.NewClip(0, 1, "b")})

	err := domain.Walk(root, func(n domain.Node) error {
		visits++
		if visits == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visits)
}

func TestSessionStateTransitions(t *testing.T) {
	assert.NoError(t, domain.Transition(domain.StateCreated, domain.StateNegotiating))
	assert.NoError(t, domain.Transition(domain.StateNegotiating, domain.StateLive))
	assert.NoError(t, domain.Transition(domain.StateLive, domain.StateFailed))
	assert.NoError(t, domain.Transition(domain.StateClosing, domain.StateClosed))

	assert.ErrorIs(t, domain.Transition(domain.StateCreated, domain.StateLive), domain.ErrInvalidTransition)
	assert.ErrorIs(t, domain.Transition(domain.StateClosed, domain.StateLive), domain.ErrInvalidTransition)
	assert.ErrorIs(t, domain.Transition(domain.StateLive, domain.StateClosed), domain.ErrInvalidTransition)

	assert.True(t, domain.StateFailed.Terminal())
	assert.False(t, domain.StateLive.Terminal())
}

func TestErrorsWrapSentinels(t *testing.T) {
	cause := errors.New("no such file")
	err := error(&domain.LoadError{Path: "assets/a.png", Err: cause})

	assert.ErrorIs(t, err, domain.ErrLoad)
	assert.ErrorIs(t, err, cause)

	var le *domain.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "assets/a.png", le.Path)

	assert.ErrorIs(t, &domain.TransportError{SessionID: "s", Err: cause}, domain.ErrTransport)
	assert.ErrorIs(t, &domain.ProjectLoadError{Path: "p", Err: cause}, domain.ErrProjectLoad)
	assert.ErrorIs(t, &domain.CompositingError{Path: "p", Err: cause}, domain.ErrCompositing)
}

func TestBufferHelpers(t *testing.T) {
	spec := domain.Spec{Width: 2, Height: 2, Channels: 4, Format: domain.FormatFloat}
	b := domain.Solid(spec, 1, 0.5, 0, 1)
	require.NoError(t, b.Check())
	assert.Equal(t, []float32{1, 0.5, 0, 1}, b.At(1, 1))

	c := b.Clone()
	c.Pixels[0] = 0
	assert.Equal(t, float32(1), b.Pixels[0], "Clone must not share pixels")

	assert.True(t, spec.HasAlpha())
	assert.False(t, domain.Spec{Channels: 3}.HasAlpha())
	assert.Error(t, (&domain.Buffer{Spec: spec}).Check())

	mode, err := domain.ParseMode("on-demand")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeOnDemand, mode)
	_, err = domain.ParseMode("burst")
	assert.Error(t, err)
}
