package toolchat

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Middleware wraps a Tool with cross-cutting behavior (logging, recovery,
// timeout). Install chains with BasicToolSet.Use.
type Middleware func(Tool) Tool

// WithLogging returns a middleware that logs call start, end, duration, and
// errors. Pass nil to use slog.Default().
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Tool) Tool {
		return &loggingTool{toolBase: toolBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics from the wrapped
// function and returns them as errors. The core dispatch path never recovers
// on its own; tool panics crash the caller unless this is installed.
func WithRecovery() Middleware {
	return func(next Tool) Tool {
		return &recoveryTool{toolBase{next: next}}
	}
}

// WithTimeout returns a middleware that bounds each call with a deadline.
func WithTimeout(d time.Duration) Middleware {
	return func(next Tool) Tool {
		return &timeoutTool{toolBase: toolBase{next: next}, timeout: d}
	}
}

// toolBase delegates everything but Call to the wrapped Tool.
type toolBase struct{ next Tool }

func (b *toolBase) Name() string              { return b.next.Name() }
func (b *toolBase) Schema() ToolSchema        { return b.next.Schema() }
func (b *toolBase) SaveReturn() bool          { return b.next.SaveReturn() }
func (b *toolBase) Serialize() bool           { return b.next.Serialize() }
func (b *toolBase) InterpretAsResponse() bool { return b.next.InterpretAsResponse() }

type loggingTool struct {
	toolBase
	logger *slog.Logger
}

func (m *loggingTool) Call(ctx context.Context, args map[string]any) (any, error) {
	m.logger.Info("tool start", "tool", m.next.Name())
	start := time.Now()
	res, err := m.next.Call(ctx, args)
	dur := time.Since(start)
	if err != nil {
		m.logger.Error("tool error", "tool", m.next.Name(), "duration", dur, "error", err)
		return nil, err
	}
	m.logger.Info("tool end", "tool", m.next.Name(), "duration", dur)
	return res, nil
}

type recoveryTool struct{ toolBase }

func (r *recoveryTool) Call(ctx context.Context, args map[string]any) (res any, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = &panicError{p: p}
		}
	}()
	return r.next.Call(ctx, args)
}

type timeoutTool struct {
	toolBase
	timeout time.Duration
}

func (t *timeoutTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if t.timeout <= 0 {
		return t.next.Call(ctx, args)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Call(ctx, args)
}

// panicError wraps a recovered panic value from WithRecovery.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
