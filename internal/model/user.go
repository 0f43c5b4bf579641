package model

import "time"

// Roles recognized by the API.  USER may create and manage their own
// guarantor submissions; ADMIN additionally manages users.
const (
    RoleUser  = "USER"
    RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the repository/handler layer;
// response DTOs are defined separately in the handlers.
//
// Fields:
//  ID              – auto-increment primary key.
//  Email           – unique, stored lower-cased.
//  Name            – optional display name ("" when NULL).
//  PasswordHash    – bcrypt hash of the credential.
//  Role            – RoleUser or RoleAdmin.
//  IsEmailVerified – whether the address has been confirmed.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type User struct {
    ID              uint64    // users.id
    Email           string    // users.email
    Name            string    // users.name (nullable)
    PasswordHash    string    // users.password_hash
    Role            string    // users.role
    IsEmailVerified bool      // users.is_email_verified
    CreatedAt       time.Time // users.created_at
    UpdatedAt       time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is persisted; the raw token is
// returned to the client once and never stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
