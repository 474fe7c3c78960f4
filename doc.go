/*
Package framecast renders composited frames from a hierarchical timeline and
streams them to remote viewers.

A project describes a tree of folders and clips. Each folder nests tracks
under a cumulative frame offset; each clip maps a half-open frame range to a
source image. Rendering a frame resolves the clips visible at that frame
(depth-first, track order, clip order) and blends their images in that order
with source-over alpha compositing.

# Usage

	eng, err := framecast.New(ctx, "project.yaml", framecast.WithAssetDir("assets"))
	if err != nil {
		log.Fatal(err)
	}

	buf, err := eng.Render(ctx, 12)
	if errors.Is(err, domain.ErrNoVisibleClips) {
		// Nothing is on screen at frame 12.
	}

The Engine is the scheduler.Renderer used by every streaming session. See
pkg/session for the session manager and pkg/adapters/http for the HTTP
transport.
*/
package framecast
