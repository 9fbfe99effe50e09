package entity

import (
	"time"
)

// Role is the authorization role carried by a user account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
	RoleCustomer   Role = "customer"
)

// IsStaff reports whether the role grants access to the admin surface.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// In lists roles and reports whether r is one of them.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash; read paths that do not need it load the
// user through a projection that leaves it empty.
type User struct {
	ID                string
	Name              string
	Email             string
	Password          string
	Role              Role
	Status            bool // active flag; inactive users cannot authenticate
	IsDefaultPassword bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Sanitized returns a copy safe to hand to callers: the password hash is
// stripped.
func (u User) Sanitized() *User {
	u.Password = ""
	return &u
}
