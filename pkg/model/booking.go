package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusCompleted BookingStatus = "completed"
	StatusRejected  BookingStatus = "rejected"
	StatusCanceled  BookingStatus = "canceled"
)

// DefaultRejectionReason is stored when a booking is rejected without an
// explicit reason.
const DefaultRejectionReason = "No specific reason provided"

// statusTransitions is the single source of truth for lifecycle legality.
// Pending is a creation-only state and never a transition target. Completion
// is reachable from every state except completed itself; that permissive edge
// is the administrative override the completion flow relies on.
var statusTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending:   {StatusApproved: true, StatusRejected: true, StatusCanceled: true, StatusCompleted: true},
	StatusApproved:  {StatusCompleted: true},
	StatusRejected:  {StatusCompleted: true},
	StatusCanceled:  {StatusCompleted: true},
	StatusCompleted: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether a status change from s to target is legal.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	return statusTransitions[s][target]
}

// Settable reports whether s may be used as the target of a status-change
// request. Pending is excluded: bookings are born pending, they never return
// to it.
func (s BookingStatus) Settable() bool {
	return s.Valid() && s != StatusPending
}

// BookingStatusChange is the request shape for a lifecycle transition.
// RejectionReason only applies when moving to rejected; the payment and
// completion fields only apply when moving to completed.
type BookingStatusChange struct {
	Status               BookingStatus `json:"status" validate:"required,oneof=approved completed rejected canceled"`
	RejectionReason      string        `json:"rejection_reason,omitempty" validate:"omitempty,max=500"`
	ActualAmountReceived *float64      `json:"actual_amount_received,omitempty" validate:"omitempty,min=0"`
	CompletionTime       *time.Time    `json:"completion_time,omitempty"`
	StaffDiscount        *float64      `json:"staff_discount,omitempty" validate:"omitempty,min=0,max=100"`
}

// BookingCompletion is the request shape for the completion override. It may
// be applied from any status except completed; a missing completion time
// falls back to the server clock.
type BookingCompletion struct {
	ActualAmountReceived float64    `json:"actual_amount_received" validate:"min=0"`
	CompletionTime       *time.Time `json:"completion_time,omitempty"`
	StaffDiscount        *float64   `json:"staff_discount,omitempty" validate:"omitempty,min=0,max=100"`
}

type Booking struct {
	ID                   string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerID           string        `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	ServiceID            string        `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	PreferredStaffID     string        `json:"preferred_staff_id,omitempty" bson:"preferred_staff_id,omitempty" validate:"omitempty,mongodb"`
	AssignedStaffID      string        `json:"assigned_staff_id,omitempty" bson:"assigned_staff_id,omitempty" validate:"omitempty,mongodb"`
	CustomerAddress      string        `json:"customer_address" bson:"customer_address" validate:"required,min=2,max=200"`
	Status               BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending approved completed rejected canceled"`
	BookingDate          time.Time     `json:"booking_date" bson:"booking_date" validate:"omitempty"`
	BookingTime          time.Time     `json:"booking_time" bson:"booking_time" validate:"required"`
	StartTime            *time.Time    `json:"start_time,omitempty" bson:"start_time,omitempty"`
	EndTime              *time.Time    `json:"end_time,omitempty" bson:"end_time,omitempty"`
	TotalCost            float64       `json:"total_cost" bson:"total_cost" validate:"min=0"`
	ActualAmountReceived float64       `json:"actual_amount_received" bson:"actual_amount_received" validate:"min=0"`
	CompletionTime       *time.Time    `json:"completion_time,omitempty" bson:"completion_time,omitempty"`
	RejectionReason      string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	StaffDiscount        float64       `json:"staff_discount" bson:"staff_discount" validate:"min=0,max=100"`
}
