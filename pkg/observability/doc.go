/*
Package observability provides lifecycle hooks for monitoring framecast
sessions.

Metrics exports Prometheus counters for rendered, dropped, delivered and
placeholder frames, a histogram of render latency and a gauge of active
sessions. LogHooks writes the same events to a structured logger. Compose
merges several hook sets so that each session carries one.
*/
package observability
