package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ActionsHandler renders records as GitHub Actions workflow commands.
// Debug records become ::debug::, warnings ::warning:: and errors ::error::.
// Info records are written as plain lines.
type ActionsHandler struct {
	opts  slog.HandlerOptions
	out   io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
}

// NewActionsHandler creates a handler writing workflow commands to out.
func NewActionsHandler(out io.Writer, opts *slog.HandlerOptions) *ActionsHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ActionsHandler{opts: *opts, out: out, mu: &sync.Mutex{}}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ActionsHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= minLevel(h.opts.Level)
}

// Handle writes one workflow command per record.
func (h *ActionsHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, attrValue(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, attrValue(a))
		return true
	})

	var line string
	switch {
	case r.Level >= slog.LevelError:
		line = "::error::" + escapeData(sb.String())
	case r.Level >= slog.LevelWarn:
		line = "::warning::" + escapeData(sb.String())
	case r.Level >= slog.LevelInfo:
		line = sb.String()
	default:
		line = "::debug::" + escapeData(sb.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

// WithAttrs returns a new ActionsHandler with the given attributes.
func (h *ActionsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := *h
	newH.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &newH
}

// WithGroup is a no-op; workflow commands have no structure to group into.
func (h *ActionsHandler) WithGroup(string) slog.Handler {
	return h
}

// escapeData applies the workflow command data encoding.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
