package amqplog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/glimte/amqplog-go/contracts"
)

// Handler adapts a Sink to the slog.Handler interface so a standard
// *slog.Logger writes straight to the broker:
//
//	sink := amqplog.NewSink(cfg)
//	logger := slog.New(amqplog.NewHandler(sink, amqplog.WithLoggerName("checkout")))
//
// Handle always returns nil; delivery problems are the sink's to absorb.
type Handler struct {
	sink   *Sink
	level  slog.Leveler
	name   string
	attrs  []slog.Attr
	groups []string
}

// HandlerOption configures the Handler.
type HandlerOption func(*Handler)

// WithLevel sets the minimum level the handler forwards.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(h *Handler) {
		h.level = level
	}
}

// WithLoggerName names the originating logger. The name becomes the AMQP
// app-id property unless the sink configuration overrides it.
func WithLoggerName(name string) HandlerOption {
	return func(h *Handler) {
		h.name = name
	}
}

// NewHandler creates a handler forwarding to sink at LevelInfo and above.
func NewHandler(sink *Sink, options ...HandlerOption) *Handler {
	h := &Handler{
		sink:  sink,
		level: slog.LevelInfo,
	}

	for _, opt := range options {
		opt(h)
	}

	return h
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Resolve().Any()
	}

	prefix := h.prefix()
	r.Attrs(func(a slog.Attr) bool {
		fields[prefix+a.Key] = a.Value.Resolve().Any()
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	h.sink.Publish(contracts.Record{
		Time:    ts,
		Level:   r.Level.String(),
		Logger:  h.name,
		Message: r.Message,
		Fields:  fields,
	})
	return nil
}

// WithAttrs implements slog.Handler. Attribute keys are qualified with the
// open group path at the time they are attached.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := h.clone()
	prefix := h.prefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		c.attrs = append(c.attrs, a)
	}
	return c
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

func (h *Handler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func (h *Handler) clone() *Handler {
	return &Handler{
		sink:   h.sink,
		level:  h.level,
		name:   h.name,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}
