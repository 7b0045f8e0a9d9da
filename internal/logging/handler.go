package logging

import (
	"context"
	"log/slog"
)

// Tags used to prefix log messages by component.
const (
	TagWrapper  = "WRAPPER"
	TagTrader   = "TRADER"
	TagFallback = "FALLBACK"
	TagShutdown = "SHUTDOWN"
)

// TagPrefix returns the bracketed prefix for a tag, e.g. "[TRADER] ".
func TagPrefix(tag string) string {
	return "[" + tag + "] "
}

// TagHandler prefixes every record's message with a component tag so that
// operators can filter the combined stdout stream by component.
type TagHandler struct {
	prefix string
	next   slog.Handler
}

// NewTagHandler wraps next so that messages are prefixed with "[tag] ".
func NewTagHandler(tag string, next slog.Handler) *TagHandler {
	return &TagHandler{prefix: TagPrefix(tag), next: next}
}

// Enabled implements slog.Handler.
func (h *TagHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *TagHandler) Handle(ctx context.Context, r slog.Record) error {
	tagged := slog.NewRecord(r.Time, r.Level, h.prefix+r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		tagged.AddAttrs(a)
		return true
	})
	return h.next.Handle(ctx, tagged)
}

// WithAttrs implements slog.Handler.
func (h *TagHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TagHandler{prefix: h.prefix, next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *TagHandler) WithGroup(name string) slog.Handler {
	return &TagHandler{prefix: h.prefix, next: h.next.WithGroup(name)}
}

// WithTag returns a logger whose messages carry the given tag. Re-tagging an
// already tagged logger replaces the tag rather than stacking prefixes.
func WithTag(logger *slog.Logger, tag string) *slog.Logger {
	h := logger.Handler()
	if th, ok := h.(*TagHandler); ok {
		h = th.next
	}
	return slog.New(NewTagHandler(tag, h))
}
