package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for frame delivery.
type Metrics struct {
	registry *prometheus.Registry

	FramesRendered prometheus.Counter
	FramesFallback prometheus.Counter
	FramesDropped  prometheus.Counter
	FramesSent     prometheus.Counter
	RenderDuration prometheus.Histogram
	StateChanges   *prometheus.CounterVec
	SessionsActive prometheus.Gauge
	StoreOps       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private
// registry, alongside the Go and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framecast_frames_rendered_total",
			Help: "Total number of frames produced by schedulers",
		}),
		FramesFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framecast_frames_fallback_total",
			Help: "Frames replaced by the placeholder after a render failure",
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framecast_frames_dropped_total",
			Help: "Undelivered frames overwritten by a newer frame",
		}),
		FramesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "framecast_frames_sent_total",
			Help: "Frames handed to a transport",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "framecast_render_duration_seconds",
			Help:    "Duration of frame resolution and compositing",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		StateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framecast_session_transitions_total",
			Help: "Session lifecycle transitions by target state",
		}, []string{"state"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "framecast_sessions_active",
			Help: "Sessions that have not reached the closed state",
		}),
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "framecast_store_operations_total",
			Help: "Session directory operations by operation and result",
		}, []string{"op", "result"}),
	}

	reg.MustRegister(
		m.FramesRendered,
		m.FramesFallback,
		m.FramesDropped,
		m.FramesSent,
		m.RenderDuration,
		m.StateChanges,
		m.SessionsActive,
		m.StoreOps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFrameRendered: func(ctx context.Context, e *domain.FrameEvent) {
			m.FramesRendered.Inc()
			m.RenderDuration.Observe(e.Duration.Seconds())
			if e.Fallback {
				m.FramesFallback.Inc()
			}
		},
		OnFrameDropped: func(ctx context.Context, sessionID string) {
			m.FramesDropped.Inc()
		},
		OnFrameSent: func(ctx context.Context, e *domain.FrameEvent) {
			m.FramesSent.Inc()
		},
		OnStateChange: func(ctx context.Context, e *domain.StateEvent) {
			m.StateChanges.WithLabelValues(string(e.To)).Inc()
			switch {
			case e.From == domain.StateCreated:
				m.SessionsActive.Inc()
			case e.To == domain.StateClosed:
				m.SessionsActive.Dec()
			}
		},
	}
}
