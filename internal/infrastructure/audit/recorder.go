// Package audit implements the asynchronous audit trail recorder.
//
// Record is fire-and-forget: the caller never waits for persistence and
// never observes a failure. Backpressure policy is drop-oldest — when the
// bounded queue is full the oldest pending event is evicted (and counted)
// so that a request goroutine is never blocked on audit I/O.
package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-system/internal/api/metrics"
	"github.com/visioncare/clinic-system/internal/core/domain"
	"github.com/visioncare/clinic-system/internal/core/ports"
)

const (
	defaultBufferSize = 256
	persistTimeout    = 5 * time.Second
	drainTimeout      = 10 * time.Second
)

// Recorder buffers audit events on a bounded channel and persists them from
// a single worker goroutine.
type Recorder struct {
	events chan domain.AuditEvent
	repo   ports.AuditRepository
	log    zerolog.Logger
	done   chan struct{}
}

// NewRecorder creates a Recorder with the given queue capacity.
// If bufferSize <= 0, defaultBufferSize is used.
func NewRecorder(repo ports.AuditRepository, bufferSize int, log zerolog.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Recorder{
		events: make(chan domain.AuditEvent, bufferSize),
		repo:   repo,
		log:    log,
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine. The worker persists events until ctx
// is cancelled, then drains whatever is still queued before exiting.
func (r *Recorder) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		for {
			select {
			case event := <-r.events:
				r.persist(event)
			case <-ctx.Done():
				r.drain()
				return
			}
		}
	}()
}

// Close blocks until the worker has finished draining. Call it after
// cancelling the context passed to Start; calling Close without a prior
// Start blocks forever.
func (r *Recorder) Close() {
	<-r.done
}

// Record enqueues an event without blocking. When the queue is full the
// oldest pending event is evicted to make room; if the slot is stolen by a
// concurrent caller the new event is dropped instead. Either way the caller
// returns immediately and failures stay inside this package.
func (r *Recorder) Record(event domain.AuditEvent) {
	select {
	case r.events <- event:
		metrics.AuditQueueDepth.Set(float64(len(r.events)))
		return
	default:
	}

	select {
	case dropped := <-r.events:
		metrics.AuditDroppedTotal.Inc()
		r.log.Warn().
			Str("action", string(dropped.Action)).
			Str("actor", dropped.ActorEmail).
			Msg("audit queue full, oldest event dropped")
	default:
	}

	select {
	case r.events <- event:
	default:
		metrics.AuditDroppedTotal.Inc()
		r.log.Warn().
			Str("action", string(event.Action)).
			Str("actor", event.ActorEmail).
			Msg("audit queue full, event dropped")
	}
	metrics.AuditQueueDepth.Set(float64(len(r.events)))
}

func (r *Recorder) persist(event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := r.repo.Insert(ctx, &event); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		r.log.Error().Err(err).
			Str("action", string(event.Action)).
			Str("actor", event.ActorEmail).
			Bool("success", event.Success).
			Msg("audit event write failed")
		return
	}

	result := "failure"
	if event.Success {
		result = "success"
	}
	metrics.AuditEventsTotal.WithLabelValues(string(event.Action), result).Inc()
}

// drain persists queued events until the queue is empty or the drain
// deadline passes; whatever remains is counted as dropped.
func (r *Recorder) drain() {
	deadline := time.Now().Add(drainTimeout)
	for {
		select {
		case event := <-r.events:
			if time.Now().After(deadline) {
				metrics.AuditDroppedTotal.Inc()
				continue
			}
			r.persist(event)
		default:
			return
		}
	}
}
