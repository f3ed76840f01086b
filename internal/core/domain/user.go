package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the only authorization dimension a user carries. The set is closed:
// every switch over Role must handle RoleAdmin and RoleUser.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole accepts role names case-insensitively, so both the stored form
// ("Admin") and the wire form ("admin") resolve to the same role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// WireName is the lowercase form used in JSON payloads.
func (r Role) WireName() string {
	return strings.ToLower(string(r))
}

// User models a registered library member.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser carries the data an admin supplies to register a member.
type CreateUser struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// UpdateUserPassword is a self-service password change. It always applies to
// the principal's own account.
type UpdateUserPassword struct {
	CurrentPassword string
	NewPassword     string
}

// UpdateUserRole changes the role of another user (admin only).
type UpdateUserRole struct {
	UserID string
	Role   Role
}

// DeleteUser removes a user together with the books they own.
type DeleteUser struct {
	UserID string
}
