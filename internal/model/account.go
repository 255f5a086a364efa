package model

import "time"

// Account represents an account row in the database. Emails are compared
// exact-match (case-sensitive) and PasswordHash never holds plaintext.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterRequest represents an account registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest represents a password change request. The target
// email comes from the URL path, not the body.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// DeleteRequest represents an account deletion request.
type DeleteRequest struct {
	Email string `json:"email" validate:"required"`
}

// TokenResponse carries a freshly issued bearer token. Tokens are delivered
// in the response body only; no cookie variant exists.
type TokenResponse struct {
	Token string `json:"token"`
}

// AccountResponse represents the stored account record as returned by the
// profile endpoint. The password field is always the hash.
type AccountResponse struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
