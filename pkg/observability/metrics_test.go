package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStateChange(ctx, &domain.StateEvent{SessionID: "s1", From: domain.StateCreated, To: domain.StateNegotiating})
	hooks.OnStateChange(ctx, &domain.StateEvent{SessionID: "s2", From: domain.StateCreated, To: domain.StateNegotiating})
	hooks.OnStateChange(ctx, &domain.StateEvent{SessionID: "s1", From: domain.StateNegotiating, To: domain.StateLive})
	hooks.OnFrameRendered(ctx, &domain.FrameEvent{SessionID: "s1", Duration: 3 * time.Millisecond})
	hooks.OnFrameRendered(ctx, &domain.FrameEvent{SessionID: "s1", Fallback: true})
	hooks.OnFrameDropped(ctx, "s1")
	hooks.OnFrameSent(ctx, &domain.FrameEvent{SessionID: "s1"})
	hooks.OnStateChange(ctx, &domain.StateEvent{SessionID: "s2", From: domain.StateNegotiating, To: domain.StateClosing})
	hooks.OnStateChange(ctx, &domain.StateEvent{SessionID: "s2", From: domain.StateClosing, To: domain.StateClosed})

	body := scrape(t, m)
	assert.Contains(t, body, "framecast_frames_rendered_total 2")
	assert.Contains(t, body, "framecast_frames_fallback_total 1")
	assert.Contains(t, body, "framecast_frames_dropped_total 1")
	assert.Contains(t, body, "framecast_frames_sent_total 1")
	assert.Contains(t, body, "framecast_render_duration_seconds_count 2")
	assert.Contains(t, body, `framecast_session_transitions_total{state="negotiating"} 2`)
	assert.Contains(t, body, "framecast_sessions_active 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestCompose(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnStateChange: func(ctx context.Context, e *domain.StateEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnStateChange:  func(ctx context.Context, e *domain.StateEvent) { order = append(order, "b") },
		OnFrameDropped: func(ctx context.Context, id string) { order = append(order, "drop:"+id) },
	}

	hooks := observability.Compose(a, domain.LifecycleHooks{}, b)
	require.NotNil(t, hooks.OnStateChange)
	require.NotNil(t, hooks.OnFrameDropped)
	assert.Nil(t, hooks.OnFrameRendered, "no set provides it")
	assert.Nil(t, hooks.OnFrameSent)

	hooks.OnStateChange(context.Background(), &domain.StateEvent{})
	hooks.OnFrameDropped(context.Background(), "s1")
	assert.Equal(t, []string{"a", "b", "drop:s1"}, order)
}

func TestLogHooks(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LogHooks(logger)

	hooks.OnStateChange(context.Background(), &domain.StateEvent{SessionID: "s1", From: domain.StateNegotiating, To: domain.StateLive})
	hooks.OnFrameRendered(context.Background(), &domain.FrameEvent{SessionID: "s1", Index: 4})
	hooks.OnFrameRendered(context.Background(), &domain.FrameEvent{SessionID: "s1", Index: 5, Fallback: true})
	hooks.OnFrameDropped(context.Background(), "s1")

	logs := out.String()
	assert.Contains(t, logs, "msg=session_state session_id=s1 from=negotiating to=live")
	assert.Contains(t, logs, "msg=frame_rendered session_id=s1 frame=4")
	assert.Contains(t, logs, "msg=frame_fallback session_id=s1 frame=5")
	assert.Contains(t, logs, "msg=frame_dropped")
}
