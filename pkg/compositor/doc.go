/*
Package compositor blends the assets visible at a frame into a single buffer.

Assets are composited strictly in resolver order, each one "over" the result
so far, so the operation is not commutative. The first asset that loads fixes
the canonical spec of the frame. Assets that fail to load, or whose shape
differs from the canonical spec, are logged and skipped; only a failure of the
first asset, or an empty list, yields no frame at all.
*/
package compositor
