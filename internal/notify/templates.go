package notify

import (
	"fmt"
	"time"

	"homecare/pkg/model"
)

// Notification texts are rendered at dispatch time so the worker only has to
// deliver them.

func BookingCreated(staffEmail, staffName, customerName string, b *model.Booking) Event {
	return Event{
		Recipient: staffEmail,
		Subject:   "New booking request",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYou have a new booking request from %s.\n\nDate: %s\nTime: %s\nAddress: %s\n\nPlease review and respond in the app.",
			staffName, customerName,
			b.BookingDate, b.BookingTime.Format(time.RFC1123),
			b.CustomerAddress,
		),
	}
}

func BookingCanceled(staffEmail, staffName, customerName string, b *model.Booking) Event {
	return Event{
		Recipient: staffEmail,
		Subject:   "Booking canceled",
		Body: fmt.Sprintf(
			"Hello %s,\n\nThe booking from %s scheduled for %s has been canceled.",
			staffName, customerName, b.BookingTime.Format(time.RFC1123),
		),
	}
}

func BookingStatusChanged(customerEmail, customerName string, b *model.Booking) Event {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking for %s has been %s.",
		customerName, b.BookingTime.Format(time.RFC1123), b.Status,
	)
	if b.Status == model.StatusRejected && b.RejectionReason != "" {
		body += fmt.Sprintf("\nReason: %s", b.RejectionReason)
	}
	return Event{
		Recipient: customerEmail,
		Subject:   fmt.Sprintf("Booking %s", b.Status),
		Body:      body,
	}
}

func AccountApproved(staffEmail, staffName string) Event {
	return Event{
		Recipient: staffEmail,
		Subject:   "Your staff account has been approved",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour staff account has been approved. You can now sign in and receive bookings.",
			staffName,
		),
	}
}

func AccountRejected(staffEmail, staffName string) Event {
	return Event{
		Recipient: staffEmail,
		Subject:   "Your staff account application",
		Body: fmt.Sprintf(
			"Hello %s,\n\nUnfortunately your staff account application was not approved at this time.",
			staffName,
		),
	}
}
