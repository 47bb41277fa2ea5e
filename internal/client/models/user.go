package models

import "time"

// Profile is the server-owned view of the signed-in user. Every field comes
// from the answering service; the client only ever replaces it wholesale
// with a server-returned copy.
type Profile struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
