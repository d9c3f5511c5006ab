package notify

import (
	"context"
	"fmt"

	"homecare/pkg/kafka"
	"homecare/pkg/logger"
)

// Worker turns consumed notification events into outbound mail.
type Worker struct {
	mailer Mailer
	log    *logger.Logger
}

func NewWorker(mailer Mailer, log *logger.Logger) *Worker {
	return &Worker{mailer: mailer, log: log}
}

// Handle implements kafka.MessageHandler. Malformed payloads are not
// retryable, so they return nil after logging; delivery failures return the
// error and let the consumer retry.
func (w *Worker) Handle(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		w.log.Error("Discarding malformed notification event",
			"event_id", msg.GetEventID(),
			"error", err,
		)
		return nil
	}

	if event.Recipient == "" {
		w.log.Error("Discarding notification event without recipient",
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	if err := w.mailer.Send(ctx, event); err != nil {
		return fmt.Errorf("deliver notification %s: %w", msg.GetEventID(), err)
	}

	w.log.Info("Notification delivered",
		"event_id", msg.GetEventID(),
		"event_type", msg.GetEventType(),
		"recipient", event.Recipient,
	)
	return nil
}
