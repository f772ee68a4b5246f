package sink

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Enqueue after the dispatcher stopped.
var ErrClosed = errors.New("dispatcher closed")

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// Timeout bounds a single publish. Zero means 10 seconds.
	Timeout time.Duration
	// MaxPending bounds the number of sessions with an undelivered event.
	// Zero means 1024.
	MaxPending int
	Logger     zerolog.Logger
}

// Dispatcher delivers events from a worker goroutine. Events are coalesced
// per session: when a session commits again before its previous event was
// delivered, only the latest document is published.
type Dispatcher struct {
	pub     Publisher
	timeout time.Duration
	max     int
	log     zerolog.Logger

	mu      sync.Mutex
	pending map[string]Event
	order   []string
	closed  bool
	wake    chan struct{}

	delivered int
	dropped   int
}

// NewDispatcher creates a dispatcher that publishes to pub once Run starts.
func NewDispatcher(pub Publisher, cfg DispatcherConfig) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = 1024
	}
	return &Dispatcher{
		pub:     pub,
		timeout: cfg.Timeout,
		max:     cfg.MaxPending,
		log:     cfg.Logger.With().Str("component", "sink").Logger(),
		pending: make(map[string]Event),
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue schedules ev for delivery and returns immediately. When the
// queue is full the event of the oldest pending session is dropped.
func (d *Dispatcher) Enqueue(ev Event) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if _, ok := d.pending[ev.SessionID]; !ok {
		if len(d.order) >= d.max {
			oldest := d.order[0]
			d.order = d.order[1:]
			delete(d.pending, oldest)
			d.dropped++
			d.log.Warn().Str("session_id", oldest).Msg("Sink queue full, dropping pending event")
		}
		d.order = append(d.order, ev.SessionID)
	}
	d.pending[ev.SessionID] = ev
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run delivers events until ctx is done, then flushes what is pending using
// a fresh timeout per event.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			d.closed = true
			d.mu.Unlock()
			d.drain(context.Background())
			return nil
		case <-d.wake:
			d.drain(ctx)
		}
	}
}

// Pending returns the number of sessions waiting for delivery.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

// Stats returns the number of delivered and dropped events.
func (d *Dispatcher) Stats() (delivered, dropped int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delivered, d.dropped
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		ev, ok := d.next()
		if !ok {
			return
		}
		d.publish(ctx, ev)
	}
}

func (d *Dispatcher) next() (Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.order) == 0 {
		return Event{}, false
	}
	id := d.order[0]
	d.order = d.order[1:]
	ev := d.pending[id]
	delete(d.pending, id)
	return ev, true
}

func (d *Dispatcher) publish(parent context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.pub.Publish(ctx, ev)

	d.mu.Lock()
	if err == nil {
		d.delivered++
	}
	d.mu.Unlock()

	if err != nil {
		d.log.Error().Err(err).
			Str("session_id", ev.SessionID).
			Str("resume_id", ev.ResumeID).
			Msg("Failed to publish change")
		return
	}
	d.log.Debug().
		Str("session_id", ev.SessionID).
		Str("resume_id", ev.ResumeID).
		Dur("duration", time.Since(start)).
		Msg("Change published")
}
