package logger

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

const initialBufferCapacity = 256

// CustomHandler writes one "time LEVEL msg key=value" line per record.
type CustomHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewWriterHandler creates a new handler that writes to the specified writer.
func NewWriterHandler(w io.Writer, level Level) *CustomHandler {
	return &CustomHandler{
		mu:     &sync.Mutex{},
		writer: w,
		level:  level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats r and writes it as a single line.
func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, initialBufferCapacity)

	buf = r.Time.Local().AppendFormat(buf, "2006-01-02T15:04:05-07:00")
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	prefix := strings.Join(h.groups, ".")

	for _, a := range h.attrs {
		buf = appendAttr(buf, prefix, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, prefix, a)

		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.writer.Write(buf)

	return err
}

func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix = joinKey(prefix, a.Key)
		}

		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, prefix, ga)
		}

		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, joinKey(prefix, a.Key)...)
	buf = append(buf, '=')

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\r\n\"=") {
		return strconv.AppendQuote(buf, val)
	}

	return append(buf, val...)
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

// WithAttrs returns a new handler with the given attributes added.
func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(clone.attrs[:len(clone.attrs):len(clone.attrs)], attrs...)

	return &clone
}

// WithGroup returns a new handler with the given group name added.
func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = append(clone.groups[:len(clone.groups):len(clone.groups)], name)

	return &clone
}

// Close closes the underlying writer if it implements io.Closer.
func (h *CustomHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if closer, ok := h.writer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
