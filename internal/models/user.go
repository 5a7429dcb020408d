package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the set of roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// CanManageNotifications reports whether the role may send, list and delete
// notifications addressed to other users.
func CanManageNotifications(r Role) bool {
	return r == RoleAdmin || r == RoleOwner
}

// User represents an account in the system. DeviceToken holds the single push
// token registered for the user's current device; registering a new one
// overwrites it, and reconciliation unsets it when the push provider reports
// the token as permanently invalid.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         Role               `bson:"role" json:"role"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	DeviceToken  string             `bson:"device_token,omitempty" json:"device_token,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
