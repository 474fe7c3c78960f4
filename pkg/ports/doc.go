/*
Package ports defines the driven ports (interfaces) of the framecast renderer.

These interfaces decouple the resolver, compositor and scheduler from external
implementations, allowing the renderer to work with various codecs, project
sources, transports and session directories.

# Key Interfaces

  - ProjectLoader: parses a project description into a timeline tree.
  - Codec: the Image Codec Service, decoding assets and encoding frames.
  - FrameProducer: the consumer side of a scheduler, handed to a transport.
  - TransportSession: a live delivery connection (track, control text, state changes).
  - SessionStore: mirrors session snapshots for out-of-process inspection.
*/
package ports
