package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders records as compact single-line text for terminal
// use. Attribute order follows the call site; the component attribute is
// pulled forward as a bracketed prefix.
type consoleHandler struct {
	opts  *slog.HandlerOptions
	attrs []slog.Attr
	color bool

	mu  *sync.Mutex
	out io.Writer
}

func newConsoleHandler(out io.Writer, opts *slog.HandlerOptions, color bool) *consoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &consoleHandler{opts: opts, color: color, mu: &sync.Mutex{}, out: out}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(h.levelLabel(record.Level))
	b.WriteByte(' ')

	component := ""
	fields := make([]slog.Attr, 0, record.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		if attr.Key == FieldComponent {
			component = attr.Value.String()
			continue
		}
		fields = append(fields, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == FieldComponent {
			component = attr.Value.String()
			return true
		}
		fields = append(fields, attr)
		return true
	})

	if component != "" {
		b.WriteByte('[')
		b.WriteString(component)
		b.WriteString("] ")
	}
	b.WriteString(record.Message)
	for _, attr := range fields {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(attr.Value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(string) slog.Handler {
	// Groups are flattened in console output.
	return h
}

const (
	ansiDim    = "\x1b[2m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

func (h *consoleHandler) levelLabel(level slog.Level) string {
	label := strings.ToUpper(level.String())
	if !h.color {
		return label
	}
	switch {
	case level >= slog.LevelError:
		return ansiRed + label + ansiReset
	case level >= slog.LevelWarn:
		return ansiYellow + label + ansiReset
	case level < slog.LevelInfo:
		return ansiDim + label + ansiReset
	default:
		return label
	}
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t") {
			return fmt.Sprintf("%q", s)
		}
		return s
	default:
		return v.String()
	}
}
