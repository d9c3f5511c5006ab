package notify

import (
	"context"

	"homecare/pkg/kafka"
	"homecare/pkg/logger"
)

// Event is a notification ready for delivery. Recipient is an email address;
// rendering happens before dispatch so the worker stays template-free.
type Event struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

const (
	EventBookingCreated  = "booking.created"
	EventBookingStatus   = "booking.status_changed"
	EventBookingCanceled = "booking.canceled"
	EventAccountApproved = "account.approved"
	EventAccountRejected = "account.rejected"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, eventType string, event Event) error
	Close() error
}

// KafkaDispatcher publishes notification events for the notifier worker.
// Delivery failures are logged, never surfaced to the caller: a booking must
// not fail because the broker is down.
type KafkaDispatcher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaDispatcher(producer *kafka.Producer, log *logger.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, log: log}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, eventType string, event Event) error {
	msg := kafka.NewMessage().
		WithKey(event.Recipient).
		WithValue(event).
		WithEventType(eventType).
		WithSource("homecare-server").
		Build()

	if err := d.producer.Publish(ctx, msg); err != nil {
		d.log.Error("Failed to publish notification event",
			"event_type", eventType,
			"recipient", event.Recipient,
			"error", err,
		)
		return err
	}

	d.log.Info("Notification event published",
		"event_type", eventType,
		"event_id", msg.GetEventID(),
	)
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.producer.Close()
}

// NopDispatcher drops events. Used in tests and when the broker is not
// configured.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, string, Event) error { return nil }
func (NopDispatcher) Close() error                                  { return nil }
