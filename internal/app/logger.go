package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	logMaxSizeMB    = 10
	logMaxBackups   = 5
)

// NewLogger returns a logger that appends "<timestamp> - <message>" lines to
// the rotated log file and mirrors every record as JSON to stdout. Debug
// records only go to stdout.
// The returned closer releases the log file.
func NewLogger(logFile string, stdout io.Writer) (*slog.Logger, io.Closer) {
	file := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		LocalTime:  true,
	}

	handler := fanoutHandler{
		NewLineHandler(file, slog.LevelInfo),
		&loggerHandler{handler: slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: slog.LevelDebug})},
	}

	return slog.New(handler), file
}

type loggerHandler struct {
	handler slog.Handler
}

func (h *loggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *loggerHandler) Handle(ctx context.Context, r slog.Record) error {
	// Convert the time to UTC and truncate microseconds
	r.Time = r.Time.UTC().Truncate(time.Second)
	return h.handler.Handle(ctx, r)
}

func (h *loggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &loggerHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *loggerHandler) WithGroup(name string) slog.Handler {
	return &loggerHandler{handler: h.handler.WithGroup(name)}
}

// LineHandler writes one human-readable line per record:
//
//	2025-05-01 09:00:00 - Tweet posted: 1234 attempt=1
//
// The level is not written and the local time zone is used.
type LineHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	prefix string
	attrs  string
}

// NewLineHandler writes records at or above level to w. A nil level means info.
func NewLineHandler(w io.Writer, level slog.Leveler) *LineHandler {
	if level == nil {
		level = slog.LevelInfo
	}

	return &LineHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(r.Time.Local().Format(timestampLayout))
	b.WriteString(" - ")
	b.WriteString(r.Message)
	b.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})

	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, b.String())

	return err
}

func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder

	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}

	return &LineHandler{mu: h.mu, w: h.w, level: h.level, prefix: h.prefix, attrs: h.attrs + b.String()}
}

func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &LineHandler{mu: h.mu, w: h.w, level: h.level, prefix: h.prefix + name + ".", attrs: h.attrs}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix

		if a.Key != "" {
			groupPrefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			writeAttr(b, groupPrefix, ga)
		}

		return
	}

	fmt.Fprintf(b, " %s%s=%v", prefix, a.Key, a.Value.Any())
}

// fanoutHandler passes every record to all of its handlers.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error

	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make(fanoutHandler, len(f))

	for i, h := range f {
		handlers[i] = h.WithAttrs(attrs)
	}

	return handlers
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make(fanoutHandler, len(f))

	for i, h := range f {
		handlers[i] = h.WithGroup(name)
	}

	return handlers
}
