// Package codec implements ports.Codec on top of the standard image
// packages. PNG and JPEG assets decode to 4-channel normalized float
// buffers; buffers encode to 8-bit PNG (or JPEG) with samples clamped to
// [0,1] and rounded.
package codec
