package model

import (
	"time"
)

// FavoriteStaff links a customer to a staff member they have favorited. The
// (customer, staff) pair is unique; the repository enforces it with a
// compound index.
type FavoriteStaff struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerID string    `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	StaffID    string    `json:"staff_id" bson:"staff_id" validate:"required,mongodb"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
