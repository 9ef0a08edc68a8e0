package weblog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// openLogFile opens <dir>/<name>.log for appending, creating the directory
// if needed. Files are plain UTF-8 text.
func openLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, name+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	return f, nil
}

type lineHandlerOptions struct {
	Level      slog.Leveler
	Format     string
	ModuleRoot string
	TimeLayout string
}

// lineHandler is a slog.Handler writing one formatted text line per record.
//
// The line is produced from the configured format by token substitution:
// {time}, {level}, {source}, {message}. Attrs are appended as key=value
// pairs after the formatted line. Multi-line messages keep their newlines;
// the handler only appends the trailing one.
type lineHandler struct {
	opts  lineHandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs string
	group string
}

func newLineHandler(w io.Writer, opts lineHandlerOptions) *lineHandler {
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = defaultTimeLayout
	}

	return &lineHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

// Enabled implements slog.Handler.
func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

// Handle implements slog.Handler.
func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	line := h.opts.Format
	if strings.Contains(line, "{time}") {
		line = strings.ReplaceAll(line, "{time}", r.Time.Format(h.opts.TimeLayout))
	}
	if strings.Contains(line, "{level}") {
		line = strings.ReplaceAll(line, "{level}", r.Level.String())
	}
	if strings.Contains(line, "{source}") {
		line = strings.ReplaceAll(line, "{source}", h.source(r.PC))
	}
	line = strings.ReplaceAll(line, "{message}", r.Message)

	var b strings.Builder
	b.WriteString(line)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var b strings.Builder
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}

	clone := *h
	clone.attrs = h.attrs + b.String()
	return &clone
}

// WithGroup implements slog.Handler.
func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// source renders the corrected caller location as file:line, with the file
// made relative to the module root when possible.
func (h *lineHandler) source(pc uintptr) string {
	if pc == 0 {
		return ""
	}

	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", relativePath(h.opts.ModuleRoot, frame.File), frame.Line)
}

func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" {
		key = group + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(b, key, ga)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

// relativePath converts file to a path relative to root. When the relation
// cannot be determined, or file sits outside root, the raw path is returned.
func relativePath(root, file string) string {
	if root == "" {
		return file
	}

	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}
