package model

import "time"

// Roles a user can hold.  Passengers book and cancel their own tickets;
// operators additionally maintain routes and buses.
const (
    RolePassenger = "PASSENGER"
    RoleOperator  = "OPERATOR"
)

// User represents an application user record as stored in the
// `users` table.  Users are created at registration and are immutable
// thereafter; they own zero or more Tickets.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name (compared case-insensitively).
//  PasswordHash – bcrypt hash of the password.
//  Role         – PASSENGER or OPERATOR.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA‑256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
}
