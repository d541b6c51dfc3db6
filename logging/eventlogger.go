package logging

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/sarchlab/fracflow/sim"
)

// EventLogger is a hook that logs every event an engine is about to handle.
type EventLogger struct {
	logger *slog.Logger
}

// NewEventLogger returns an EventLogger that writes to logger at LevelTrace.
func NewEventLogger(logger *slog.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(sim.Event)
	if !ok {
		return
	}

	if !h.logger.Enabled(context.Background(), LevelTrace) {
		return
	}

	attrs := []slog.Attr{
		slog.Float64("time", float64(evt.Time())),
		slog.String("event", reflect.TypeOf(evt).String()),
	}

	if named, ok := evt.Handler().(sim.Named); ok {
		attrs = append(attrs, slog.String("handler", named.Name()))
	}

	h.logger.LogAttrs(context.Background(), LevelTrace, "event", attrs...)
}
