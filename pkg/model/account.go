package model

import (
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// Account is a platform user. Staff accounts start inactive and must be
// approved by an admin before they can authenticate or appear in
// availability results.
type Account struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name               string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email              string    `json:"email" bson:"email" validate:"required,email"`
	Phone              string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Address            string    `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,min=2,max=200"`
	PasswordHash       string    `json:"-" bson:"password_hash"`
	Role               Role      `json:"role" bson:"role" validate:"required,oneof=customer staff admin manager"`
	ServiceIDs         []string  `json:"service_ids,omitempty" bson:"service_ids,omitempty" validate:"omitempty,dive,mongodb"`
	Active             bool      `json:"active" bson:"active"`
	DiscountPercentage float64   `json:"discount_percentage" bson:"discount_percentage" validate:"min=0,max=100"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// AccountRegistration is the signup request shape. Role is restricted to the
// self-service roles; admin and manager accounts are provisioned out of band.
type AccountRegistration struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Address    string   `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Password   string   `json:"password" validate:"required,min=8,max=72"`
	Role       Role     `json:"role" validate:"required,oneof=customer staff"`
	ServiceIDs []string `json:"service_ids,omitempty" validate:"omitempty,dive,mongodb"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AvailableStaff is an availability result entry: a staff account annotated
// with whether the requesting customer has favorited them.
type AvailableStaff struct {
	Account    `bson:",inline"`
	IsFavorite bool `json:"is_favorite" bson:"-"`
}
