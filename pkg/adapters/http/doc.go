/*
Package http is the HTTP transport and control plane.

A viewer offers a session with POST /sessions, then opens
GET /sessions/{id}/stream, which delivers frames as a
multipart/x-mixed-replace sequence of encoded images. Opening the stream
connects the session; closing it disconnects and tears the session down.
Control messages (a decimal frame index) are posted to
POST /sessions/{id}/control.
*/
package http
