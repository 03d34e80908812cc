package model

import "time"

// User represents an application user record as stored in the
// `users` table.  The password is only ever held as a bcrypt hash.
// Handlers define their own response types so PasswordHash never
// leaves the service.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (unique, lower-cased)
	Phone        string    // users.phone
	PasswordHash string    // users.password_hash
	IsAdmin      bool      // users.is_admin
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
