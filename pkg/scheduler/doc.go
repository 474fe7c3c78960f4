/*
Package scheduler paces frame production for one delivery session.

A Scheduler walks the session lifecycle CREATED -> NEGOTIATING -> LIVE ->
(CLOSING | FAILED) -> CLOSED and produces frames only while LIVE. Two
delivery modes share the same consumer contract (NextFrame):

  - Paced: a fixed cadence. Each cycle advances the presentation timestamp by
    the interval, waits until the wall clock reaches it, then renders the
    session's current frame pointer.
  - On-demand: a frame is rendered each time the frame pointer changes.

Produced frames go through a single-slot mailbox. A newer frame replaces an
undelivered one, so the producer never blocks on a slow viewer. A failed
render is replaced by a solid placeholder carrying the same timestamp.

Closing the scheduler cancels pending timers, wakes blocked consumers with
domain.ErrSessionClosed and releases the pending frame.
*/
package scheduler
