package models

import "time"

// User is an account row. HashedPassword never leaves the server.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	FullName       string     `json:"full_name,omitempty"`
	HashedPassword string     `json:"-"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}
