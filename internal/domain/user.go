package domain

import "time"

// Role enumerates the closed set of account roles. Checks are single-role
// equality: an admin never implicitly satisfies a mechanic-only guard.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMechanic Role = "mechanic"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleMechanic, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record for customers, mechanics and administrators.
// Role is immutable after creation; no endpoint changes it.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
