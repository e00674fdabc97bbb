package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var ErrEmailExists = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidToken = errors.New("invalid or expired token")

// User models a registered account on the platform.
// PasswordHash is excluded from JSON so it can never leak into a response.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// NormalizeEmail lowercases and trims an address so email uniqueness is
// case-insensitive across every store implementation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
