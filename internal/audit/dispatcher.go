package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultQueueSize  = 256
	defaultWriteLimit = 10 * time.Second

	reasonQueueFull = "queue_full"
	reasonClosed    = "closed"
	reasonStore     = "store"
)

// FailureCounter is incremented once per entry that never reached the store.
type FailureCounter interface {
	IncAuditFailure(reason string)
}

type job struct {
	userID *int64
	action string
	ts     time.Time
}

// Dispatcher queues audit entries and writes them from a single background
// worker, so a slow or failing journal never fails the caller's request.
// Entries that do not fit in the queue are dropped.
type Dispatcher struct {
	logger       *Logger
	log          *zap.Logger
	failures     FailureCounter
	writeTimeout time.Duration
	now          func() time.Time

	mu     sync.Mutex
	closed bool
	queue  chan job
	done   chan struct{}
}

type DispatcherOption func(*Dispatcher)

func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan job, n)
		}
	}
}

// WithWriteTimeout bounds each background write.
func WithWriteTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if t > 0 {
			d.writeTimeout = t
		}
	}
}

func WithFailureCounter(c FailureCounter) DispatcherOption {
	return func(d *Dispatcher) { d.failures = c }
}

// NewDispatcher starts the worker. Call Close to stop it.
func NewDispatcher(logger *Logger, log *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		logger:       logger,
		log:          log,
		failures:     nopCounter{},
		writeTimeout: defaultWriteLimit,
		now:          func() time.Time { return time.Now().UTC() },
		queue:        make(chan job, defaultQueueSize),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	go d.run()
	return d
}

// LogAction enqueues the entry and returns immediately. The timestamp is
// taken now, not when the worker gets to it. It never returns an error.
func (d *Dispatcher) LogAction(_ context.Context, userID *int64, action string, ts *time.Time) error {
	j := job{userID: userID, action: action}
	if ts != nil {
		j.ts = ts.UTC()
	} else {
		j.ts = d.now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.drop(j, reasonClosed)
		return nil
	}

	select {
	case d.queue <- j:
	default:
		d.drop(j, reasonQueueFull)
	}
	return nil
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		d.write(j)
	}
}

func (d *Dispatcher) write(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
	defer cancel()

	ts := j.ts
	if err := d.logger.LogAction(ctx, j.userID, j.action, &ts); err != nil {
		d.failures.IncAuditFailure(reasonStore)
		d.log.Error("writing audit entry", zap.String("action", j.action), zap.Error(err))
	}
}

func (d *Dispatcher) drop(j job, reason string) {
	d.failures.IncAuditFailure(reason)
	d.log.Warn("audit entry dropped",
		zap.String("action", j.action),
		zap.String("reason", reason),
	)
}

// Close stops intake and waits for queued entries to be written, or for
// ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("audit queue not drained"), ctx.Err())
	}
}

type nopCounter struct{}

func (nopCounter) IncAuditFailure(string) {}
