/*
Package onetable – logging interface.

Table and Expression log through Logger. The default writes through log/slog;
ZapLogger adapts an existing zap logger.
*/
package onetable

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/zap"
)

// Logger is the interface callers may supply to Table.
// Each method receives a structured context map (may be nil).
type Logger interface {
	Trace(message string, ctx map[string]any)
	Info(message string, ctx map[string]any)
	Error(message string, ctx map[string]any)
	Data(message string, ctx map[string]any)
}

// SlogLogger writes through a *slog.Logger. Trace and Data are emitted at
// debug level so they only show when the handler enables it.
type SlogLogger struct {
	L *slog.Logger
}

// NewSlogLogger returns a text logger on stderr. verbose enables trace/data.
func NewSlogLogger(verbose bool) SlogLogger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return SlogLogger{L: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

func (s SlogLogger) Trace(msg string, ctx map[string]any) { s.log(slog.LevelDebug, msg, ctx, "trace") }
func (s SlogLogger) Data(msg string, ctx map[string]any)  { s.log(slog.LevelDebug, msg, ctx, "data") }
func (s SlogLogger) Info(msg string, ctx map[string]any)  { s.log(slog.LevelInfo, msg, ctx, "") }
func (s SlogLogger) Error(msg string, ctx map[string]any) { s.log(slog.LevelError, msg, ctx, "") }

func (s SlogLogger) log(level slog.Level, msg string, ctx map[string]any, kind string) {
	l := s.L
	if l == nil {
		l = slog.Default()
	}
	attrs := make([]slog.Attr, 0, len(ctx)+1)
	if kind != "" {
		attrs = append(attrs, slog.String("kind", kind))
	}
	for k, v := range ctx {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.LogAttrs(context.Background(), level, msg, attrs...)
}

// ZapLogger writes through a *zap.Logger.
type ZapLogger struct {
	L *zap.Logger
}

func (z ZapLogger) Trace(msg string, ctx map[string]any) { z.L.Debug(msg, zapFields(ctx, "trace")...) }
func (z ZapLogger) Data(msg string, ctx map[string]any)  { z.L.Debug(msg, zapFields(ctx, "data")...) }
func (z ZapLogger) Info(msg string, ctx map[string]any)  { z.L.Info(msg, zapFields(ctx, "")...) }
func (z ZapLogger) Error(msg string, ctx map[string]any) { z.L.Error(msg, zapFields(ctx, "")...) }

func zapFields(ctx map[string]any, kind string) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)+1)
	if kind != "" {
		fields = append(fields, zap.String("kind", kind))
	}
	for k, v := range ctx {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}

// FuncLogger wraps a plain function: func(level, message string, ctx map[string]any).
type FuncLogger struct {
	Fn func(level, message string, ctx map[string]any)
}

func (f FuncLogger) Trace(msg string, ctx map[string]any) { f.Fn("trace", msg, ctx) }
func (f FuncLogger) Data(msg string, ctx map[string]any)  { f.Fn("data", msg, ctx) }
func (f FuncLogger) Info(msg string, ctx map[string]any)  { f.Fn("info", msg, ctx) }
func (f FuncLogger) Error(msg string, ctx map[string]any) { f.Fn("error", msg, ctx) }

// NopLogger silently discards everything.
type NopLogger struct{}

func (NopLogger) Trace(string, map[string]any) {}
func (NopLogger) Data(string, map[string]any)  {}
func (NopLogger) Info(string, map[string]any)  {}
func (NopLogger) Error(string, map[string]any) {}
