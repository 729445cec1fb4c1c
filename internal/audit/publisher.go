package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	id "payoutkyc/pkg/domain"
)

var (
	ErrBufferFull = errors.New("audit buffer full")
	ErrClosed     = errors.New("audit publisher closed")
)

// Publisher captures audit events. It is append-only: every event goes to
// the store and then to each extra sink. With an async buffer, Emit only
// enqueues and a Worker does the writes.
type Publisher struct {
	store  Store
	sinks  []Sink
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	inbox  chan Event
	done   chan struct{}
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous delivery through a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.inbox = make(chan Event, n)
		}
	}
}

// WithSink fans events out to s after they are stored.
func WithSink(s Sink) Option {
	return func(p *Publisher) {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
}

// WithLogger sets a logger for delivery failures in async mode.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.done = make(chan struct{})
		w := NewWorker(p.write, p.inbox, p.logger)
		go func() {
			defer close(p.done)
			w.Run()
		}()
	}
	return p
}

// Emit records event. A zero ID or Timestamp is filled in.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.inbox == nil {
		return p.write(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.logger.WarnContext(ctx, "audit event dropped",
			"action", event.Action,
			"request_id", event.RequestID,
		)
		return ErrBufferFull
	}
}

// List returns the stored events for userID in emission order.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close stops accepting events and, in async mode, waits for the buffer
// to drain. Safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}

func (p *Publisher) write(ctx context.Context, event Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	var errs []error
	for _, s := range p.sinks {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("fan out audit event: %w", errors.Join(errs...))
	}
	return nil
}
