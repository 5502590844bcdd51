// Package model defines the data structures used throughout the application.
package model

import "time"

// Role is the account type chosen at signup. It is fixed for the lifetime
// of the account — profile updates cannot change it.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User represents the signed-in identity.
//
// There is at most one User active at a time — this is a single-client
// session core, not a multi-tenant account system. The ID is an opaque xid
// assigned when the login flow resolves.
//
// ProfileImage holds a data-URL style text reference supplied by the
// presentational layer, or "" when unset. We use empty strings rather than
// nullable pointers for the optional text fields — simpler to work with and
// safe to display.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Bio          string    `json:"bio"`
	StatusTag    string    `json:"statusTag"`
	JoinedDate   time.Time `json:"joinedDate"` // set once at creation
}
