/*
Package domain contains the core domain models of the framecast renderer.

It defines the timeline tree that describes what is visible at a given frame,
the pixel buffers produced by compositing, the timed frames delivered to a
viewer and the lifecycle vocabulary shared by schedulers and sessions. This
package is kept pure and free of external dependencies like I/O or transport.

# Key Entities

  - Node: a timeline entry, either a Folder (nested tracks under an offset) or a Clip.
  - Track: an ordered list of nodes.
  - Buffer: a row-major, channel-interleaved raster plus its Spec.
  - Frame: a Buffer tagged with its presentation timestamp and content index.
  - SessionState: the per-session delivery state machine.
*/
package domain
