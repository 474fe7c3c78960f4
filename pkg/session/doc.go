/*
Package session owns the set of active delivery sessions.

A Manager creates one scheduler per accepted transport, runs a task loop
per session that consumes the transport's typed events, routes inbound
control messages to the session's frame pointer and tears the session down
when its transport closes or fails. Sessions are isolated: no frame buffer,
queue or frame pointer is shared between them.

When a ports.SessionStore is configured, every lifecycle change and frame
pointer update is mirrored as a domain.SessionSnapshot so that other
processes can inspect running sessions.
*/
package session
