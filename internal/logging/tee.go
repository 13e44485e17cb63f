package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Output is one named log destination. The handler's own level decides
// which records it receives.
type Output struct {
	Name    string
	Handler slog.Handler
}

// NewTee returns a logger that writes every record to each output whose
// handler accepts the record's level.
func NewTee(outputs ...Output) *slog.Logger {
	return slog.New(newTeeHandler(outputs))
}

type teeHandler struct {
	outputs []Output
}

func newTeeHandler(outputs []Output) slog.Handler {
	live := make([]Output, 0, len(outputs))
	for _, out := range outputs {
		if out.Handler != nil {
			live = append(live, out)
		}
	}
	if len(live) == 0 {
		return NoopHandler{}
	}
	if len(live) == 1 {
		return live[0].Handler
	}
	return &teeHandler{outputs: live}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, out := range h.outputs {
		if out.Handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle keeps writing after a failed output; failures come back joined and
// tagged with the output name.
func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, out := range h.outputs {
		if !out.Handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := out.Handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("%s log: %w", out.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]Output, len(h.outputs))
	for i, out := range h.outputs {
		next[i] = Output{Name: out.Name, Handler: fn(out.Handler)}
	}
	return &teeHandler{outputs: next}
}
