package timeline

import (
	"path"

	"github.com/aretw0/framecast/pkg/domain"
)

// DefaultAssetDir is the folder prefixed to clip sources.
const DefaultAssetDir = "assets"

// Resolver resolves visible clips against a fixed asset folder.
type Resolver struct {
	AssetDir string
}

// NewResolver creates a Resolver. An empty assetDir leaves sources unprefixed.
func NewResolver(assetDir string) *Resolver {
	return &Resolver{AssetDir: assetDir}
}

// At returns the asset paths visible at frame, starting from the root with
// no inherited offset.
func (r *Resolver) At(root domain.Node, frame int) []string {
	return Resolve(root, frame, 0, r.AssetDir)
}

// Resolve returns the asset paths visible at frame below node, in
// depth-first, track, then clip order. inherited is the accumulated offset of
// every ancestor above node. The result is never nil.
func Resolve(node domain.Node, frame, inherited int, assetDir string) []string {
	visible := []string{}
	return appendVisible(visible, node, frame, inherited, assetDir)
}

func appendVisible(dst []string, node domain.Node, frame, inherited int, assetDir string) []string {
	switch n := node.(type) {
	case *domain.Folder:
		base := inherited + n.Start
		for _, track := range n.Tracks {
			for _, child := range track {
				switch c := child.(type) {
				case *domain.Folder:
					dst = appendVisible(dst, c, frame, base, assetDir)
				case *domain.Clip:
					dst = appendClip(dst, c, frame, base, assetDir)
				}
			}
		}
	case *domain.Clip:
		dst = appendClip(dst, n, frame, inherited, assetDir)
	}
	return dst
}

func appendClip(dst []string, c *domain.Clip, frame, offset int, assetDir string) []string {
	if !Visible(c, frame, offset) || !c.HasSource || c.Source == "" {
		return dst
	}
	return append(dst, path.Join(assetDir, c.Source))
}

// Visible reports whether clip c, placed under an accumulated offset, covers frame.
func Visible(c *domain.Clip, frame, offset int) bool {
	start := c.Start + offset
	end := start + c.Length
	return start <= frame && frame < end
}

// Span returns the first frame and the exclusive end frame covered by any clip
// below node. ok is false when the timeline has no clip with a positive length.
func Span(node domain.Node) (first, end int, ok bool) {
	var walk func(n domain.Node, offset int)
	walk = func(n domain.Node, offset int) {
		switch v := n.(type) {
		case *domain.Folder:
			for _, track := range v.Tracks {
				for _, child := range track {
					walk(child, offset+v.Start)
				}
			}
		case *domain.Clip:
			if v.Length <= 0 {
				return
			}
			s, e := v.Start+offset, v.Start+offset+v.Length
			if !ok || s < first {
				first = s
			}
			if !ok || e > end {
				end = e
			}
			ok = true
		}
	}
	walk(node, 0)
	return first, end, ok
}
