package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/framecast"
	"github.com/aretw0/framecast/internal/logging"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
	"github.com/aretw0/framecast/pkg/scheduler"
	"github.com/aretw0/framecast/pkg/session"
	"github.com/go-chi/chi/v5"
)

// boundary separates parts of the multipart frame stream.
const boundary = "frame"

// maxControlBody bounds a control message body.
const maxControlBody = 64

// Server exposes the session manager over HTTP.
type Server struct {
	manager  *session.Manager
	codec    ports.Codec
	renderer scheduler.Renderer // Optional, enables GET /frames/{frame}
	metrics  http.Handler       // Optional, mounted at /metrics
	mode     domain.DeliveryMode
	logger   *slog.Logger

	mu         sync.Mutex
	transports map[string]*Transport
}

// Option configures the Server.
type Option func(*Server)

// WithRenderer enables single-frame previews.
func WithRenderer(r scheduler.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithDefaultMode sets the delivery mode of sessions that do not ask for one.
func WithDefaultMode(mode domain.DeliveryMode) Option {
	return func(s *Server) {
		s.mode = mode
	}
}

// WithLogger configures a logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server. Frames are encoded with codec.
func NewServer(manager *session.Manager, codec ports.Codec, opts ...Option) *Server {
	s := &Server{
		manager:    manager,
		codec:      codec,
		mode:       domain.ModePaced,
		logger:     logging.NewNop(),
		transports: make(map[string]*Transport),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with CORS applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	if s.renderer != nil {
		r.Get("/frames/{frame}", s.GetFrame)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/stream", s.Stream)
			r.Post("/control", s.Control)
		})
	})

	return enableCORS(r)
}

// NewHandler is shorthand for NewServer(...).Handler().
func NewHandler(manager *session.Manager, codec ports.Codec, opts ...Option) http.Handler {
	return NewServer(manager, codec, opts...).Handler()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	Mode  string `json:"mode,omitempty"`
	Frame int64  `json:"frame,omitempty"`
}

// CreateSessionResponse describes an offered session.
type CreateSessionResponse struct {
	ID      string              `json:"id"`
	State   domain.SessionState `json:"state"`
	Mode    domain.DeliveryMode `json:"mode"`
	Stream  string              `json:"stream"`
	Control string              `json:"control"`
}

// CreateSession handles POST /sessions: it accepts a connection offer.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.logger.Warn("CreateSession: Invalid request body", "err", err)
			return
		}
	}

	mode := s.mode
	if body.Mode != "" {
		var err error
		if mode, err = domain.ParseMode(body.Mode); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	tr := NewTransport()
	sess, err := s.manager.Open(r.Context(), tr, session.OpenOptions{Mode: mode, InitialFrame: body.Frame})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrShuttingDown) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, fmt.Sprintf("Open error: %v", err), status)
		s.logger.Error("CreateSession failed", "err", err)
		return
	}

	s.mu.Lock()
	s.transports[sess.ID] = tr
	s.mu.Unlock()
	go func() {
		<-sess.Done()
		s.mu.Lock()
		delete(s.transports, sess.ID)
		s.mu.Unlock()
	}()

	resp := CreateSessionResponse{
		ID:      sess.ID,
		State:   sess.Scheduler().State(),
		Mode:    sess.Scheduler().Mode(),
		Stream:  "/sessions/" + sess.ID + "/stream",
		Control: "/sessions/" + sess.ID + "/control",
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/sessions/"+sess.ID)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("CreateSession response encode failed", "err", err)
	}
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, s.manager.List())
}

// SessionResponse is a session snapshot plus scheduler counters.
type SessionResponse struct {
	domain.SessionSnapshot
	Stats scheduler.Stats `json:"stats"`
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, s.logger, SessionResponse{
		SessionSnapshot: sess.Snapshot(),
		Stats:           sess.Scheduler().Stats(),
	})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	err := s.manager.Close(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		http.Error(w, fmt.Sprintf("Close error: %v", err), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// Control handles POST /sessions/{id}/control. The body is a frame index.
// Valid messages are queued to the session loop like any inbound control
// message.
func (s *Server) Control(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tr, ok := s.transport(id)
	if !ok {
		http.Error(w, domain.ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxControlBody+1))
	if err != nil || len(body) > maxControlBody {
		http.Error(w, "Invalid control message", http.StatusBadRequest)
		return
	}
	text := string(body)
	if _, err := session.ParseControl(text); err != nil {
		s.logger.Warn("Control: Ignoring message", "session_id", id, "text", text)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tr.emit(ports.TransportEvent{Kind: ports.EventControl, Text: text})
	w.WriteHeader(http.StatusAccepted)
}

// Stream handles GET /sessions/{id}/stream: it connects the viewer and
// writes frames as a multipart/x-mixed-replace sequence until the viewer
// leaves or the session closes.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tr, ok := s.transport(id)
	if !ok {
		http.Error(w, domain.ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("Stream: Streaming not supported")
		return
	}

	producer, err := tr.attach()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-tr.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	logger := s.logger.With("session_id", id)
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	tr.emit(ports.TransportEvent{Kind: ports.EventStateChanged, State: ports.ConnectionConnected})
	logger.Info("Stream: Viewer connected")

	for {
		frame, err := producer.NextFrame(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSessionClosed) {
				return
			}
			// The viewer went away.
			logger.Info("Stream: Viewer disconnected")
			tr.emit(ports.TransportEvent{Kind: ports.EventStateChanged, State: ports.ConnectionDisconnected})
			return
		}

		data, err := s.codec.Encode(frame.Buffer)
		if err != nil {
			logger.Warn("Stream: Dropping frame", "frame", frame.Index, "err", err)
			continue
		}

		if err := writePart(w, s.codec.ContentType(), frame, data); err != nil {
			logger.Warn("Stream: Write failed", "err", err)
			tr.emit(ports.TransportEvent{Kind: ports.EventStateChanged, State: ports.ConnectionFailed, Err: err})
			return
		}
		flusher.Flush()
	}
}

func writePart(w io.Writer, contentType string, frame domain.Frame, data []byte) error {
	header := fmt.Sprintf("--%s\r\nContent-Type: %s\r\nContent-Length: %d\r\nX-Frame-Index: %d\r\nX-Timestamp: %d\r\nX-Fallback: %t\r\n\r\n",
		boundary, contentType, len(data), frame.Index, frame.Timestamp.Milliseconds(), frame.Fallback)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// GetFrame handles GET /frames/{frame}: it renders one frame outside any
// session.
func (s *Server) GetFrame(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "frame")), 10, 64)
	if err != nil {
		http.Error(w, "Invalid frame index", http.StatusBadRequest)
		return
	}

	buf, err := s.renderer.Render(r.Context(), index)
	if err != nil {
		if errors.Is(err, domain.ErrNoVisibleClips) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Render error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetFrame: Render failed", "frame", index, "err", err)
		return
	}

	data, err := s.codec.Encode(buf)
	if err != nil {
		http.Error(w, fmt.Sprintf("Encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.codec.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]any{"status": "ok", "sessions": s.manager.Len()})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "framecast-http",
		"version": strings.TrimSpace(framecast.Version),
	})
}

func (s *Server) transport(id string) (*Transport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.transports[id]
	return tr, ok
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
