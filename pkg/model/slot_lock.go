package model

import "time"

// SlotLock is an advisory lock taken while the double-booking guard and the
// booking insert run. Its _id encodes the (staff, requested time) pair, so a
// duplicate-key error on insert means another request is booking the same
// slot right now.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
