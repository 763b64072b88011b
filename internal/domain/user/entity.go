package user

import (
	"time"
)

// Role authorities.
const (
	AuthorityAdmin    = "ROLE_ADMIN"
	AuthorityOperator = "ROLE_OPERATOR"
	AuthorityClient   = "ROLE_CLIENT"
	AuthorityMember   = "ROLE_MEMBER"
	AuthorityVisitor  = "ROLE_VISITOR"
)

// Role is a granted authority, e.g. ROLE_ADMIN.
type Role struct {
	ID        uint
	Authority string
}

// User is the user aggregate root.
// Notes:
//  1. Password holds the bcrypt hash only, nothing on User exposes the plain text
//  2. Email is unique, enforced by a UNIQUE index and checked before saving
//     so the caller gets a field error instead of a conflict
type User struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
	Password  string
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user. hashedPassword must already be a bcrypt hash.
func NewUser(firstName, lastName, email, hashedPassword string, roles []Role) *User {
	now := time.Now()
	return &User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hashedPassword,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateProfile overwrites names, email and the role set.
func (u *User) UpdateProfile(firstName, lastName, email string, roles []Role) {
	u.FirstName = firstName
	u.LastName = lastName
	u.Email = email
	u.Roles = append([]Role(nil), roles...)
	u.UpdatedAt = time.Now()
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Authorities lists the role names, e.g. for token claims.
func (u *User) Authorities() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = r.Authority
	}
	return out
}

// HasRole reports whether the user holds authority.
func (u *User) HasRole(authority string) bool {
	for _, r := range u.Roles {
		if r.Authority == authority {
			return true
		}
	}
	return false
}
