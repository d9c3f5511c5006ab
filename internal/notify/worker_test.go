package notify

import (
	"context"
	"errors"
	"io"
	"testing"

	"homecare/pkg/kafka"
	"homecare/pkg/logger"
)

type mockMailer struct {
	sendErr error
	sent    []Event
}

func (m *mockMailer) Send(_ context.Context, event Event) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, event)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func eventMessage(event Event) kafka.Message {
	return kafka.NewMessage().
		WithKey(event.Recipient).
		WithValue(event).
		WithEventType(EventBookingCreated).
		Build()
}

func TestHandleDeliversEvent(t *testing.T) {
	mailer := &mockMailer{}
	worker := NewWorker(mailer, testLogger())

	event := Event{
		Recipient: "staff@example.com",
		Subject:   "New booking request",
		Body:      "A customer requested a booking.",
	}

	if err := worker.Handle(context.Background(), eventMessage(event)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(mailer.sent))
	}
	if mailer.sent[0] != event {
		t.Errorf("delivered event does not match: %+v", mailer.sent[0])
	}
}

func TestHandleDiscardsMalformedPayload(t *testing.T) {
	mailer := &mockMailer{}
	worker := NewWorker(mailer, testLogger())

	msg := kafka.NewMessage().WithKey("k").Build()
	msg.Value = []byte("not json")

	// Malformed payloads are not retryable; the offset must be committed.
	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("expected nil for malformed payload, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("malformed payload must not be delivered")
	}
}

func TestHandleDiscardsMissingRecipient(t *testing.T) {
	mailer := &mockMailer{}
	worker := NewWorker(mailer, testLogger())

	msg := eventMessage(Event{Subject: "No recipient", Body: "body"})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("expected nil for missing recipient, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("event without recipient must not be delivered")
	}
}

func TestHandleReturnsDeliveryError(t *testing.T) {
	mailer := &mockMailer{sendErr: errors.New("smtp connection refused")}
	worker := NewWorker(mailer, testLogger())

	err := worker.Handle(context.Background(), eventMessage(Event{
		Recipient: "staff@example.com",
		Subject:   "s",
		Body:      "b",
	}))
	if err == nil {
		t.Fatal("expected delivery error to propagate for retry")
	}
	if !errors.Is(err, mailer.sendErr) {
		t.Errorf("expected wrapped delivery error, got %v", err)
	}
}
