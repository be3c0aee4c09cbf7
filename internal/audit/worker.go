package audit

import (
	"context"
	"log/slog"
)

// Sink receives events that are already persisted locally, e.g. a Kafka
// topic consumed by downstream compliance tooling.
type Sink interface {
	Ship(ctx context.Context, event Event) error
}

// Worker drains the publisher outbox and ships events to the sink in the
// background, so a slow broker never blocks request handling. Shipping is
// best-effort: failures are logged and the worker keeps going.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Ship(ctx, event); err != nil {
				w.logger.Warn("audit event not shipped",
					"action", event.Action, "event_id", event.ID, "error", err)
			}
		}
	}
}
