/*
Package timeline resolves which assets are visible at a frame.

Resolution walks the timeline depth-first: tracks in declaration order, then
children in declaration order. Folder offsets accumulate strictly downward,
and a clip is visible on the half-open interval [start, start+length).

Resolve is stateless and side-effect free, so a single timeline can be queried
concurrently by every session without synchronization.
*/
package timeline
