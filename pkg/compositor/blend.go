package compositor

import "github.com/aretw0/framecast/pkg/domain"

// Operator blends src over dst in place. Both buffers share a shape.
type Operator func(dst, src *domain.Buffer)

// Over is straight-alpha source-over compositing on normalized samples:
//
//	out.c = src.c*src.a + dst.c*(1-src.a)
//	out.a = src.a + dst.a*(1-src.a)
//
// When the spec has no alpha channel every source sample is opaque.
func Over(dst, src *domain.Buffer) {
	spec := dst.Spec
	ch := spec.Channels
	if !spec.HasAlpha() {
		copy(dst.Pixels, src.Pixels)
		return
	}
	color := ch - 1
	for i := 0; i+ch <= len(dst.Pixels); i += ch {
		sa := src.Pixels[i+color]
		inv := 1 - sa
		for c := 0; c < color; c++ {
			dst.Pixels[i+c] = src.Pixels[i+c]*sa + dst.Pixels[i+c]*inv
		}
		dst.Pixels[i+color] = sa + dst.Pixels[i+color]*inv
	}
}

// Replace copies src over dst ignoring alpha.
func Replace(dst, src *domain.Buffer) {
	copy(dst.Pixels, src.Pixels)
}
