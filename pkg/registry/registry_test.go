package registry_test

import (
	"testing"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rgba = domain.Spec{Width: 1, Height: 1, Channels: 4, Format: domain.FormatFloat}

func TestDefault(t *testing.T) {
	r := registry.Default()
	assert.Equal(t, []string{"over", "replace"}, r.Names())

	over, err := r.Lookup("")
	require.NoError(t, err)
	dst := domain.Solid(rgba, 1, 0, 0, 1)
	over(dst, domain.Solid(rgba, 0, 0, 1, 0.5))
	assert.Equal(t, []float32{0.5, 0, 0.5, 1}, dst.At(0, 0))

	replace, err := r.Lookup("replace")
	require.NoError(t, err)
	dst = domain.Solid(rgba, 1, 0, 0, 1)
	replace(dst, domain.Solid(rgba, 0, 0, 1, 0.5))
	assert.Equal(t, []float32{0, 0, 1, 0.5}, dst.At(0, 0))
}

func TestRegisterAndMissing(t *testing.T) {
	r := registry.NewRegistry()
	_, err := r.Lookup("over")
	assert.ErrorContains(t, err, "blend operator not found")

	called := false
	r.Register("custom", func(dst, src *domain.Buffer) { called = true })
	op, err := r.Lookup("custom")
	require.NoError(t, err)
	op(nil, nil)
	assert.True(t, called)
}
