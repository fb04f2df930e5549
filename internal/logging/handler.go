package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// HumanHandler writes one record per line:
//
//	2026-08-29T10:04:02Z [info] analysis complete files=12 skipped=1
//
// Attribute keys carry dot-joined group prefixes. The zero value is not
// usable; construct with NewHumanHandler.
type HumanHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	prefix []byte // pre-rendered " key=value" pairs from WithAttrs
	groups string // "a.b." accumulated by WithGroup
}

// NewHumanHandler builds a HumanHandler writing to w.
func NewHumanHandler(w io.Writer, opts *slog.HandlerOptions) *HumanHandler {
	h := &HumanHandler{
		mu:    new(sync.Mutex),
		out:   w,
		level: slog.LevelInfo,
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *HumanHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *HumanHandler) Handle(_ context.Context, r slog.Record) error {
	line := make([]byte, 0, 128)
	line = r.Time.UTC().AppendFormat(line, time.RFC3339)
	line = append(line, " ["...)
	line = append(line, levelName(r.Level)...)
	line = append(line, "] "...)
	line = append(line, r.Message...)

	line = append(line, h.prefix...)
	r.Attrs(func(a slog.Attr) bool {
		line = h.appendAttr(line, a)
		return true
	})
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line)
	return err
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.prefix = make([]byte, len(h.prefix), len(h.prefix)+16*len(attrs))
	copy(clone.prefix, h.prefix)
	for _, a := range attrs {
		clone.prefix = clone.appendAttr(clone.prefix, a)
	}
	return &clone
}

func (h *HumanHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = h.groups + name + "."
	return &clone
}

func (h *HumanHandler) appendAttr(b []byte, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Key == "" {
		return b
	}
	b = append(b, ' ')
	b = append(b, h.groups...)
	b = append(b, a.Key...)
	b = append(b, '=')
	return appendValue(b, a.Value)
}

func appendValue(b []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return append(b, v.String()...)
	case slog.KindInt64:
		return strconv.AppendInt(b, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(b, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(b, v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(b, v.Bool())
	case slog.KindDuration:
		return append(b, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().UTC().AppendFormat(b, time.RFC3339)
	default:
		return fmt.Appendf(b, "%v", v.Any())
	}
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}
