package goToken

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Audit event types emitted by Engine.
const (
	AuditTokenEncoded      = "token_encoded"
	AuditTokenEncodeFailed = "token_encode_failed"
	AuditTokenDecoded      = "token_decoded"
	AuditTokenDecodeFailed = "token_decode_failed"
	AuditTokenKeyFallback  = "token_key_fallback"
)

// AuditEvent is one encode or decode outcome. Claim values are never included.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	KeyID     string            `json:"key_id,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives audit events from the dispatcher goroutine. Emit should
// return promptly; Engine.Close waits for queued events to be delivered.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a buffered channel. When the reader falls
// behind, events are dropped and counted rather than stalling the dispatcher.
type ChannelSink struct {
	events  chan AuditEvent
	dropped atomic.Uint64
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{events: make(chan AuditEvent, max(buffer, 1))}
}

func (s *ChannelSink) Emit(_ context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	default:
		s.dropped.Add(1)
	}
}

// Events is the receive side of the sink.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// Dropped counts events discarded because Events was not drained.
func (s *ChannelSink) Dropped() uint64 {
	return s.dropped.Load()
}

// LoggerSink writes each event as one structured zerolog entry.
type LoggerSink struct {
	log zerolog.Logger
}

// NewLoggerSink writes events to l at info level.
func NewLoggerSink(l zerolog.Logger) *LoggerSink {
	return &LoggerSink{log: l}
}

// NewJSONWriterSink writes one JSON object per line to w. Writes are serialized.
func NewJSONWriterSink(w io.Writer) *LoggerSink {
	return NewLoggerSink(zerolog.New(zerolog.SyncWriter(w)))
}

func (s *LoggerSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil {
		return
	}
	entry := s.log.Log().
		Time("timestamp", event.Timestamp).
		Str("event_type", event.EventType).
		Bool("success", event.Success)
	if event.KeyID != "" {
		entry = entry.Str("key_id", event.KeyID)
	}
	if event.Subject != "" {
		entry = entry.Str("subject", event.Subject)
	}
	if event.Error != "" {
		entry = entry.Str("error", event.Error)
	}
	if len(event.Metadata) > 0 {
		meta := zerolog.Dict()
		for k, v := range event.Metadata {
			meta = meta.Str(k, v)
		}
		entry = entry.Dict("metadata", meta)
	}
	entry.Send()
}
