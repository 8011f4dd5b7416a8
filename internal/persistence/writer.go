package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/sonumarket-core/pkg/logger"
	"github.com/angelmondragon/sonumarket-core/pkg/metrics"
	"go.uber.org/multierr"
)

// ErrWriterClosed is returned when enqueueing after Close.
var ErrWriterClosed = errors.New("snapshot writer closed")

const defaultWriteTimeout = 3 * time.Second

type WriterOptions struct {
	// WriteTimeout bounds each store call. Defaults to 3s.
	WriteTimeout time.Duration
	Logger       *logger.Logger
	Metrics      *metrics.PersistenceMetrics
}

type pendingWrite struct {
	payload []byte
	delete  bool
}

// Writer applies snapshot writes off the caller's goroutine. Writes to the
// same key coalesce so only the latest payload is stored; keys drain in the
// order they were first queued.
type Writer struct {
	store   Store
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.PersistenceMetrics

	mu      sync.Mutex
	pending map[string]pendingWrite
	order   []string
	busy    bool
	closed  bool
	errs    error
	waiters []chan struct{}

	wake chan struct{}
	done chan struct{}
}

func NewWriter(store Store, opts WriterOptions) (*Writer, error) {
	if store == nil {
		return nil, errors.New("snapshot store required")
	}
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	w := &Writer{
		store:   store,
		timeout: timeout,
		logg:    opts.Logger,
		metrics: opts.Metrics,
		pending: map[string]pendingWrite{},
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Save queues a raw payload for key.
func (w *Writer) Save(key string, payload []byte) error {
	return w.enqueue(key, pendingWrite{payload: append([]byte(nil), payload...)})
}

// SaveJSON encodes v and queues it for key.
func (w *Writer) SaveJSON(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.enqueue(key, pendingWrite{payload: payload})
}

// Delete queues removal of key.
func (w *Writer) Delete(key string) error {
	return w.enqueue(key, pendingWrite{delete: true})
}

func (w *Writer) enqueue(key string, op pendingWrite) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	if _, queued := w.pending[key]; !queued {
		w.order = append(w.order, key)
	}
	w.pending[key] = op
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush blocks until every queued write has been applied and returns the
// failures collected since the previous Flush.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.order) == 0 && !w.busy {
		err := w.takeErrsLocked()
		w.mu.Unlock()
		return err
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, ch)
	w.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.takeErrsLocked()
}

// Close stops accepting writes and drains the queue.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}

	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.takeErrsLocked()
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		if len(w.order) == 0 {
			w.busy = false
			for _, ch := range w.waiters {
				close(ch)
			}
			w.waiters = nil
			closed := w.closed
			w.mu.Unlock()
			if closed {
				return
			}
			<-w.wake
			continue
		}
		key := w.order[0]
		w.order = w.order[1:]
		op := w.pending[key]
		delete(w.pending, key)
		w.busy = true
		w.mu.Unlock()

		if err := w.apply(key, op); err != nil {
			w.mu.Lock()
			w.errs = multierr.Append(w.errs, err)
			w.mu.Unlock()
		}
	}
}

func (w *Writer) apply(key string, op pendingWrite) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	label := logicalKey(key)
	w.metrics.IncWrite(label)

	var err error
	if op.delete {
		err = w.store.Delete(ctx, key)
	} else {
		err = w.store.Save(ctx, key, op.payload)
	}
	if err != nil {
		w.metrics.IncFailure(label)
		w.logg.Error(w.logg.WithField(ctx, "snapshot_key", key), "snapshot write failed", err)
		return err
	}
	return nil
}

func (w *Writer) takeErrsLocked() error {
	err := w.errs
	w.errs = nil
	return err
}
