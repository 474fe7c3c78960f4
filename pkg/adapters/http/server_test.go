package http_test

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/framecast/pkg/adapters/codec"
	transport "github.com/aretw0/framecast/pkg/adapters/http"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/observability"
	"github.com/aretw0/framecast/pkg/scheduler"
	"github.com/aretw0/framecast/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spec = domain.Spec{Width: 2, Height: 2, Channels: 4, Format: domain.FormatFloat}

func renderer() scheduler.Renderer {
	return scheduler.RendererFunc(func(ctx context.Context, index int64) (*domain.Buffer, error) {
		if index >= 100 {
			return nil, domain.ErrNoVisibleClips
		}
		return domain.Solid(spec, float32(index)/100, 0, 0, 1), nil
	})
}

func newServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()
	metrics := observability.NewMetrics()
	manager := session.NewManager(renderer(), session.WithHooks(metrics.Hooks()))
	handler := transport.NewHandler(manager, codec.New(),
		transport.WithRenderer(renderer()),
		transport.WithMetricsHandler(metrics.Handler()),
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = manager.Shutdown(ctx)
		srv.Close()
	})
	return srv, manager
}

func createSession(t *testing.T, srv *httptest.Server, body string) transport.CreateSessionResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created transport.CreateSessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func openStream(t *testing.T, ctx context.Context, url string) (*http.Response, *multipart.Reader) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", resp.Header.Get("Content-Type"))
	return resp, multipart.NewReader(resp.Body, "frame")
}

// nextPart reads one frame without waiting for the following boundary.
func nextPart(t *testing.T, mr *multipart.Reader) (int64, []byte) {
	t.Helper()
	part, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "image/png", part.Header.Get("Content-Type"))

	n, err := strconv.Atoi(part.Header.Get("Content-Length"))
	require.NoError(t, err)
	data := make([]byte, n)
	_, err = io.ReadFull(part, data)
	require.NoError(t, err)

	index, err := strconv.ParseInt(part.Header.Get("X-Frame-Index"), 10, 64)
	require.NoError(t, err)
	return index, data
}

func postControl(t *testing.T, url, text string) int {
	t.Helper()
	resp, err := http.Post(url, "text/plain", strings.NewReader(text))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestStream_OnDemand(t *testing.T) {
	srv, manager := newServer(t)

	created := createSession(t, srv, `{"mode":"on-demand","frame":3}`)
	assert.Equal(t, domain.StateNegotiating, created.State)
	assert.Equal(t, domain.ModeOnDemand, created.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resp, mr := openStream(t, ctx, srv.URL+created.Stream)
	defer resp.Body.Close()

	index, data := nextPart(t, mr)
	assert.Equal(t, int64(3), index)
	img, err := png.Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	assert.Equal(t, http.StatusAccepted, postControl(t, srv.URL+created.Control, "7\n"))
	index, _ = nextPart(t, mr)
	assert.Equal(t, int64(7), index)

	assert.Equal(t, http.StatusBadRequest, postControl(t, srv.URL+created.Control, "seven"))
	assert.Equal(t, http.StatusNotFound, postControl(t, srv.URL+"/sessions/missing/control", "1"))

	sess, err := manager.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateLive, sess.Scheduler().State())

	// One viewer per session.
	second, err := http.Get(srv.URL + created.Stream)
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusConflict, second.StatusCode)

	var info transport.SessionResponse
	getJSON(t, srv.URL+"/sessions/"+created.ID, &info)
	assert.Equal(t, int64(7), info.Frame)
	assert.Equal(t, uint64(2), info.Stats.Delivered)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+created.ID, nil)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	_, err = mr.NextPart()
	assert.Error(t, err, "stream ends when the session closes")

	missing, err := http.Get(srv.URL + "/sessions/" + created.ID)
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestStream_Paced(t *testing.T) {
	srv, _ := newServer(t)
	created := createSession(t, srv, "")
	assert.Equal(t, domain.ModePaced, created.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resp, mr := openStream(t, ctx, srv.URL+created.Stream)
	defer resp.Body.Close()

	var last int64 = -1
	for i := 0; i < 3; i++ {
		part, err := mr.NextPart()
		require.NoError(t, err)
		ts, err := strconv.ParseInt(part.Header.Get("X-Timestamp"), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, ts, last)
		last = ts
	}
}

func TestStream_ViewerLeaves(t *testing.T) {
	srv, manager := newServer(t)
	created := createSession(t, srv, `{"mode":"on-demand"}`)

	ctx, cancel := context.WithCancel(context.Background())
	resp, mr := openStream(t, ctx, srv.URL+created.Stream)
	nextPart(t, mr)
	cancel()
	resp.Body.Close()

	require.Eventually(t, func() bool { return manager.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestSessions_List(t *testing.T) {
	srv, _ := newServer(t)
	a := createSession(t, srv, "")
	b := createSession(t, srv, `{"mode":"on-demand"}`)

	var snaps []domain.SessionSnapshot
	getJSON(t, srv.URL+"/sessions", &snaps)
	require.Len(t, snaps, 2)
	ids := []string{snaps[0].ID, snaps[1].ID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	resp, err := http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(`{"mode":"burst"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetFrame(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/frames/50")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.InDelta(t, 0x8080, r, 0x100)

	for path, want := range map[string]int{"/frames/120": http.StatusNotFound, "/frames/x": http.StatusBadRequest} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestHealthInfoMetricsCORS(t *testing.T) {
	srv, _ := newServer(t)
	createSession(t, srv, "")

	var health map[string]any
	getJSON(t, srv.URL+"/health", &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(1), health["sessions"])

	var info map[string]string
	getJSON(t, srv.URL+"/info", &info)
	assert.Equal(t, "framecast-http", info["app"])
	assert.NotEmpty(t, info["version"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "framecast_sessions_active 1")

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/sessions", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestTransport_Lifecycle(t *testing.T) {
	tr := transport.NewTransport()
	s := scheduler.New("t", renderer())
	require.NoError(t, tr.AddTrack(s))
	assert.Error(t, tr.AddTrack(s), "one track per transport")

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	select {
	case <-tr.Done():
	default:
		t.Fatal("Done not closed")
	}
	assert.Error(t, tr.AddTrack(s), "closed transports reject tracks")
}
