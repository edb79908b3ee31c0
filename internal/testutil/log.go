package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// RecordingHandler is a slog.Handler that keeps every record it handles.
//
// Handlers derived with WithAttrs or WithGroup share the parent's record
// list, so a logger built once and passed down still reports to the test.
//
// Thread-safety: all methods are safe for concurrent use.
type RecordingHandler struct {
	mu      *sync.Mutex
	records *[]slog.Record
	attrs   []slog.Attr
}

// NewRecordingHandler returns an empty handler that accepts every level.
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{mu: &sync.Mutex{}, records: &[]slog.Record{}}
}

// NewRecordingLogger returns a logger and the handler behind it.
func NewRecordingLogger() (*slog.Logger, *RecordingHandler) {
	h := NewRecordingHandler()
	return slog.New(h), h
}

// Enabled implements slog.Handler.
func (h *RecordingHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (h *RecordingHandler) Handle(_ context.Context, r slog.Record) error {
	r = r.Clone()
	r.AddAttrs(h.attrs...)

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = append(*h.records, r)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *RecordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &RecordingHandler{mu: h.mu, records: h.records, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *RecordingHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of the handled records in order.
func (h *RecordingHandler) Records() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]slog.Record, len(*h.records))
	copy(out, *h.records)
	return out
}

// AtLevel returns the messages of records logged at level.
func (h *RecordingHandler) AtLevel(level slog.Level) []string {
	var msgs []string
	for _, r := range h.Records() {
		if r.Level == level {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// Attr returns the first attribute named key on the i-th record.
func (h *RecordingHandler) Attr(i int, key string) (slog.Value, bool) {
	records := h.Records()
	if i < 0 || i >= len(records) {
		return slog.Value{}, false
	}
	var (
		found slog.Value
		ok    bool
	)
	records[i].Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found, ok = a.Value, true
			return false
		}
		return true
	})
	return found, ok
}

// Reset discards every recorded entry.
func (h *RecordingHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = (*h.records)[:0]
}
