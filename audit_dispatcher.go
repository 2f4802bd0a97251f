package goToken

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// auditDispatcher hands events to a sink on its own goroutine. Emit never
// blocks: a full queue drops the event and counts it.
type auditDispatcher struct {
	sink     AuditSink
	queue    chan AuditEvent
	log      zerolog.Logger
	warnDrop bool

	mu      sync.RWMutex
	stopped bool
	worker  sync.WaitGroup
	dropped atomic.Uint64
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink, log zerolog.Logger) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 1
	}

	d := &auditDispatcher{
		sink:     sink,
		queue:    make(chan AuditEvent, size),
		log:      log,
		warnDrop: cfg.WarnOnDrop,
	}
	d.worker.Add(1)
	go d.drain()
	return d
}

// drain runs until the queue is closed and empty.
func (d *auditDispatcher) drain() {
	defer d.worker.Done()
	ctx := context.Background()
	for event := range d.queue {
		d.sink.Emit(ctx, event)
	}
}

func (d *auditDispatcher) Emit(event AuditEvent) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return
	}

	select {
	case d.queue <- event:
	default:
		n := d.dropped.Add(1)
		// Powers of two keep a stuck sink from flooding the log.
		if d.warnDrop && n&(n-1) == 0 {
			d.log.Warn().Uint64("dropped", n).Str("event_type", event.EventType).Msg("audit queue full, event dropped")
		}
	}
}

// Close stops accepting events and waits for queued ones to reach the sink.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.worker.Wait()
}

func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
