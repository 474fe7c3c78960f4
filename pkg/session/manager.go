package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/framecast/internal/logging"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/observability"
	"github.com/aretw0/framecast/pkg/ports"
	"github.com/aretw0/framecast/pkg/scheduler"
	"github.com/google/uuid"
)

// DefaultStoreTimeout bounds each snapshot write.
const DefaultStoreTimeout = 2 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// OpenOptions configures a new session.
type OpenOptions struct {
	Mode         domain.DeliveryMode
	InitialFrame int64
}

// Manager owns the registry of active sessions.
type Manager struct {
	renderer  scheduler.Renderer
	schedOpts []scheduler.Option
	store     ports.SessionStore // Optional snapshot mirror
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	newID     func() string
	timeout   time.Duration

	ctx    context.Context // Parent of every producer
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*lockEntry // Serializes snapshot writes per session
	closing  bool
	wg       sync.WaitGroup // Tracks session task loops
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore mirrors session snapshots into store.
func WithStore(store ports.SessionStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithHooks registers observability hooks on every session scheduler.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithSchedulerOptions applies opts to every session scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) Option {
	return func(m *Manager) {
		m.schedOpts = append(m.schedOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator replaces the UUID session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithStoreTimeout bounds each snapshot write.
func WithStoreTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a Manager whose sessions render through renderer.
func NewManager(renderer scheduler.Renderer, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		renderer: renderer,
		logger:   logging.NewNop(), // Default to no-op
		newID:    uuid.NewString,
		timeout:  DefaultStoreTimeout,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
		locks:    make(map[string]*lockEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open accepts a connection offer: it creates the session's scheduler,
// attaches it to transport and starts the session's task loop. The session
// goes LIVE when the transport reports it is connected.
func (m *Manager) Open(ctx context.Context, transport ports.TransportSession, opts OpenOptions) (*Session, error) {
	m.mu.Lock()
	closing := m.closing
	m.mu.Unlock()
	if closing {
		return nil, ErrShuttingDown
	}

	sess := &Session{
		ID:        m.newID(),
		CreatedAt: time.Now().UTC(),
		transport: transport,
		done:      make(chan struct{}),
	}
	logger := m.logger.With("session_id", sess.ID)

	hooks := m.hooks
	if m.store != nil {
		hooks = observability.Compose(m.hooks, domain.LifecycleHooks{
			OnStateChange: func(ctx context.Context, e *domain.StateEvent) {
				m.mirror(sess)
			},
		})
	}

	mode := opts.Mode
	if mode == "" {
		mode = domain.ModePaced
	}
	schedOpts := append([]scheduler.Option{}, m.schedOpts...)
	schedOpts = append(schedOpts,
		scheduler.WithMode(mode),
		scheduler.WithInitialFrame(opts.InitialFrame),
		scheduler.WithHooks(hooks),
		scheduler.WithLogger(m.logger),
	)
	sess.sched = scheduler.New(sess.ID, m.renderer, schedOpts...)

	if err := sess.sched.Negotiate(); err != nil {
		return nil, err
	}
	if err := transport.AddTrack(sess.sched); err != nil {
		terr := &domain.TransportError{SessionID: sess.ID, Err: err}
		_ = sess.sched.Fail(terr)
		_ = transport.Close()
		return nil, terr
	}

	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		_ = sess.sched.Close()
		_ = transport.Close()
		return nil, ErrShuttingDown
	}
	m.sessions[sess.ID] = sess
	m.wg.Add(1)
	m.mu.Unlock()

	logger.Info("Session opened", "mode", sess.sched.Mode())
	go m.loop(sess, logger)
	return sess, nil
}

// loop consumes the transport's events until the session is torn down.
func (m *Manager) loop(sess *Session, logger *slog.Logger) {
	defer m.wg.Done()
	defer close(sess.done)
	defer m.remove(sess.ID)

	events := sess.transport.Events()
	for {
		select {
		case <-sess.sched.Closed():
			// Closed through the Manager rather than by the transport.
			m.closeTransport(sess, logger)
			return

		case ev, ok := <-events:
			if !ok {
				m.teardown(sess, nil, logger)
				return
			}
			switch ev.Kind {
			case ports.EventStateChanged:
				if m.handleState(sess, ev, logger) {
					return
				}
			case ports.EventControl:
				_ = m.route(sess, ev.Text, logger)
			case ports.EventClosed:
				m.teardown(sess, ev.Err, logger)
				return
			}
		}
	}
}

// handleState reports whether the session was torn down.
func (m *Manager) handleState(sess *Session, ev ports.TransportEvent, logger *slog.Logger) bool {
	logger.Debug("Transport state", "state", ev.State)

	switch ev.State {
	case ports.ConnectionConnected:
		if err := sess.sched.Start(m.ctx); err != nil {
			logger.Warn("Cannot start session", "err", err)
		}
		return false
	case ports.ConnectionFailed:
		cause := ev.Err
		if cause == nil {
			cause = errors.New("connection failed")
		}
		m.teardown(sess, cause, logger)
		return true
	case ports.ConnectionDisconnected, ports.ConnectionClosed:
		m.teardown(sess, nil, logger)
		return true
	default:
		return false
	}
}

// teardown stops the scheduler (Fail when cause is set) and releases the
// transport.
func (m *Manager) teardown(sess *Session, cause error, logger *slog.Logger) {
	if cause != nil {
		_ = sess.sched.Fail(&domain.TransportError{SessionID: sess.ID, Err: cause})
	} else {
		_ = sess.sched.Close()
	}
	m.closeTransport(sess, logger)
}

func (m *Manager) closeTransport(sess *Session, logger *slog.Logger) {
	if err := sess.transport.Close(); err != nil {
		logger.Debug("Transport close failed", "err", err)
	}
	logger.Info("Session closed")
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Route applies a control message to the session's frame pointer.
// Returns domain.ErrSessionNotFound for unknown sessions and
// ErrInvalidControl for text that is not a frame index.
func (m *Manager) Route(id, text string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	return m.route(sess, text, m.logger.With("session_id", id))
}

func (m *Manager) route(sess *Session, text string, logger *slog.Logger) error {
	index, err := ParseControl(text)
	if err != nil {
		logger.Warn("Ignoring control message", "text", text)
		return err
	}
	sess.sched.SetFrame(index)
	m.mirror(sess)
	return nil
}

// Get returns an active session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// List returns snapshots of the active sessions, oldest first.
func (m *Manager) List() []domain.SessionSnapshot {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	snaps := make([]domain.SessionSnapshot, 0, len(sessions))
	for _, s := range sessions {
		snaps = append(snaps, s.Snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].ID < snaps[j].ID
		}
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
	return snaps
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close tears one session down and waits for its loop to exit or ctx.
func (m *Manager) Close(ctx context.Context, id string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := sess.sched.Close(); err != nil {
		return err
	}
	select {
	case <-sess.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown closes every session and waits for their teardown or ctx expiry.
// Open fails with ErrShuttingDown afterwards.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closing = true
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	m.logger.Info("Shutting down sessions", "count", len(sessions))
	for _, s := range sessions {
		go func(s *Session) {
			_ = s.sched.Close()
		}(s)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	defer m.cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Store returns the snapshot mirror, if any.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// mirror writes the session's snapshot, or deletes it once CLOSED. Writes
// for one session are serialized so the final delete always wins.
func (m *Manager) mirror(sess *Session) {
	if m.store == nil {
		return
	}

	entry := m.acquire(sess.ID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sess.ID)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	snap := sess.Snapshot()
	var err error
	if snap.State == domain.StateClosed {
		err = m.store.Delete(ctx, sess.ID)
	} else {
		err = m.store.Save(ctx, snap)
	}
	if err != nil {
		m.logger.Warn("Failed to mirror session snapshot", "session_id", sess.ID, "state", snap.State, "err", err)
	}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}
