package audit

import (
	"context"
	"log/slog"
	"time"
)

const writeTimeout = 5 * time.Second

// Worker drains an inbox of events into a write function until the inbox is
// closed. Failed writes are logged and skipped.
type Worker struct {
	write  func(context.Context, Event) error
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(write func(context.Context, Event) error, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{write: write, inbox: inbox, logger: logger}
}

func (w *Worker) Run() {
	for event := range w.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := w.write(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to write audit event",
				"error", err,
				"action", event.Action,
				"user_id", event.UserID.String(),
				"request_id", event.RequestID,
			)
		}
		cancel()
	}
}
