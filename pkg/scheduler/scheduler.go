package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/framecast/internal/logging"
	"github.com/aretw0/framecast/pkg/domain"
)

// DefaultInterval is one frame at 25 fps.
const DefaultInterval = 40 * time.Millisecond

// Renderer renders the content frame at index.
// A nil buffer with a nil error is treated like domain.ErrNoVisibleClips.
type Renderer interface {
	Render(ctx context.Context, index int64) (*domain.Buffer, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, index int64) (*domain.Buffer, error)

func (f RendererFunc) Render(ctx context.Context, index int64) (*domain.Buffer, error) {
	return f(ctx, index)
}

// Stats is a snapshot of scheduler counters.
type Stats struct {
	State     domain.SessionState `json:"state"`
	Mode      domain.DeliveryMode `json:"mode"`
	Frame     int64               `json:"frame"`
	Produced  uint64              `json:"produced"`
	Delivered uint64              `json:"delivered"`
	Dropped   uint64              `json:"dropped"`
	Fallbacks uint64              `json:"fallbacks"`
}

// Scheduler produces frames for one session. It implements ports.FrameProducer.
type Scheduler struct {
	id       string
	renderer Renderer
	mode     domain.DeliveryMode
	interval time.Duration
	fallback *domain.Buffer
	clock    Clock
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	frame atomic.Int64  // Written by control messages, read by the producer
	wake  chan struct{} // Capacity 1, coalesces frame pointer updates
	slot  *Slot

	mu     sync.Mutex // Guards the lifecycle fields below
	state  domain.SessionState
	cancel context.CancelFunc
	start  time.Time
	wg     sync.WaitGroup // Tracks the producer goroutine
	closed chan struct{}  // Closed on reaching CLOSED

	produced  atomic.Uint64
	delivered atomic.Uint64
	fallbacks atomic.Uint64
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithMode selects paced or on-demand delivery.
func WithMode(mode domain.DeliveryMode) Option {
	return func(s *Scheduler) {
		s.mode = mode
	}
}

// WithInterval sets the paced frame interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithFallback sets the placeholder frame used when rendering fails.
// The scheduler keeps its own copy of buf.
func WithFallback(buf *domain.Buffer) Option {
	return func(s *Scheduler) {
		if buf != nil {
			s.fallback = buf
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithHooks registers observability hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(s *Scheduler) {
		s.hooks = h
	}
}

// WithLogger configures a logger for render failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithInitialFrame sets the frame pointer before the session goes live.
func WithInitialFrame(index int64) Option {
	return func(s *Scheduler) {
		s.frame.Store(index)
	}
}

// New creates a scheduler in the CREATED state.
func New(id string, renderer Renderer, opts ...Option) *Scheduler {
	s := &Scheduler{
		id:       id,
		renderer: renderer,
		mode:     domain.ModePaced,
		interval: DefaultInterval,
		fallback: DefaultFallback(),
		clock:    RealClock{},
		logger:   logging.NewNop(),
		wake:     make(chan struct{}, 1),
		slot:     NewSlot(),
		state:    domain.StateCreated,
		closed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fallback = s.fallback.Clone()
	s.logger = s.logger.With("session_id", id)
	return s
}

// ID returns the session ID the scheduler belongs to.
func (s *Scheduler) ID() string { return s.id }

// Mode returns the delivery mode.
func (s *Scheduler) Mode() domain.DeliveryMode { return s.mode }

// State returns the current lifecycle state.
func (s *Scheduler) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Closed is closed once the scheduler reaches CLOSED.
func (s *Scheduler) Closed() <-chan struct{} { return s.closed }

// Negotiate moves CREATED -> NEGOTIATING.
func (s *Scheduler) Negotiate() error {
	s.mu.Lock()
	ev, err := s.transitionLocked(domain.StateNegotiating)
	s.mu.Unlock()
	s.emit(ev)
	return err
}

// Start moves NEGOTIATING -> LIVE and starts the producer. ctx bounds the
// producer's lifetime in addition to Close and Fail.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	ev, err := s.transitionLocked(domain.StateLive)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.start = s.clock.Now()

	s.wg.Add(1)
	go s.run(runCtx)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// SetFrame updates the frame pointer. The next production cycle renders it.
func (s *Scheduler) SetFrame(index int64) {
	s.frame.Store(index)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Frame returns the current frame pointer.
func (s *Scheduler) Frame() int64 { return s.frame.Load() }

// NextFrame blocks until a frame is ready for delivery. It returns
// domain.ErrSessionClosed once the scheduler is closing or closed.
func (s *Scheduler) NextFrame(ctx context.Context) (domain.Frame, error) {
	f, err := s.slot.Take(ctx)
	if err != nil {
		return f, err
	}
	s.delivered.Add(1)
	if s.hooks.OnFrameSent != nil {
		s.hooks.OnFrameSent(ctx, &domain.FrameEvent{
			SessionID: s.id,
			Index:     f.Index,
			Timestamp: f.Timestamp,
			Fallback:  f.Fallback,
		})
	}
	return f, nil
}

// Close performs an orderly shutdown: LIVE (or earlier) -> CLOSING -> CLOSED.
// Closing an already terminal scheduler is a no-op.
func (s *Scheduler) Close() error {
	return s.shutdown(domain.StateClosing, nil)
}

// Fail tears the scheduler down after a transport failure:
// -> FAILED -> CLOSED.
func (s *Scheduler) Fail(cause error) error {
	return s.shutdown(domain.StateFailed, cause)
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		State:     s.State(),
		Mode:      s.mode,
		Frame:     s.frame.Load(),
		Produced:  s.produced.Load(),
		Delivered: s.delivered.Load(),
		Dropped:   s.slot.Drops(),
		Fallbacks: s.fallbacks.Load(),
	}
}

func (s *Scheduler) shutdown(via domain.SessionState, cause error) error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	ev, err := s.transitionLocked(via)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if cause != nil {
		s.logger.Warn("Session failed", "err", cause)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.slot.Close()
	s.mu.Unlock()
	s.emit(ev)

	// The producer may be inside Render; wait without holding the lock.
	s.wg.Wait()

	s.mu.Lock()
	ev, err = s.transitionLocked(domain.StateClosed)
	s.mu.Unlock()
	close(s.closed)
	s.emit(ev)
	return err
}

// transitionLocked applies a lifecycle edge. Hooks must be fired with emit
// after s.mu is released.
func (s *Scheduler) transitionLocked(to domain.SessionState) (*domain.StateEvent, error) {
	from := s.state
	if err := domain.Transition(from, to); err != nil {
		return nil, err
	}
	s.state = to
	s.logger.Debug("Session state", "from", from, "to", to)
	return &domain.StateEvent{SessionID: s.id, From: from, To: to}, nil
}

func (s *Scheduler) emit(ev *domain.StateEvent) {
	if ev != nil && s.hooks.OnStateChange != nil {
		s.hooks.OnStateChange(context.Background(), ev)
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	switch s.mode {
	case domain.ModeOnDemand:
		s.runOnDemand(ctx)
	default:
		s.runPaced(ctx)
	}
}

// runPaced advances the timestamp by a fixed interval per cycle, independent
// of which content frame is rendered.
func (s *Scheduler) runPaced(ctx context.Context) {
	var ts time.Duration
	for {
		ts += s.interval
		if err := s.clock.SleepUntil(ctx, s.start.Add(ts)); err != nil {
			return
		}
		s.produce(ctx, ts)
	}
}

// runOnDemand renders the initial pointer, then once per pointer update.
func (s *Scheduler) runOnDemand(ctx context.Context) {
	for {
		s.produce(ctx, s.clock.Now().Sub(s.start))
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}
	}
}

func (s *Scheduler) produce(ctx context.Context, ts time.Duration) {
	index := s.frame.Load()
	began := s.clock.Now()

	buf, err := s.renderer.Render(ctx, index)
	if ctx.Err() != nil {
		// Closing: nothing may be delivered after this point.
		return
	}
	if err == nil && buf == nil {
		err = domain.ErrNoVisibleClips
	}

	fallback := false
	if err != nil {
		if errors.Is(err, domain.ErrNoVisibleClips) {
			s.logger.Debug("Nothing to render, using placeholder", "frame", index)
		} else {
			s.logger.Warn("Render failed, using placeholder", "frame", index, "err", err)
		}
		buf = s.fallback.Clone() // Consumers own every delivered buffer
		fallback = true
		s.fallbacks.Add(1)
	}

	frame := domain.Frame{Index: index, Timestamp: ts, Buffer: buf, Fallback: fallback}
	dropped := s.slot.Put(frame)
	s.produced.Add(1)

	if s.hooks.OnFrameRendered != nil {
		s.hooks.OnFrameRendered(ctx, &domain.FrameEvent{
			SessionID: s.id,
			Index:     index,
			Timestamp: ts,
			Duration:  s.clock.Now().Sub(began),
			Fallback:  fallback,
			Err:       err,
		})
	}
	if dropped && s.hooks.OnFrameDropped != nil {
		s.hooks.OnFrameDropped(ctx, s.id)
	}
}
