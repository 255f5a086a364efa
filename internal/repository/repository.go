package repository

import (
	"context"
	"errors"

	"github.com/accountd/accountd-go/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

// AccountRepository persists accounts keyed by their unique email. Every
// operation targets at most one row; implementations must report a
// duplicate-key insert as ErrDuplicateEmail and a missed row as
// ErrAccountNotFound.
type AccountRepository interface {
	// Create inserts a new account and sets the generated ID on it.
	Create(ctx context.Context, account *model.Account) error

	// GetByEmail retrieves an account by exact email match.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)

	// UpdatePassword replaces the stored password hash for an email.
	UpdatePassword(ctx context.Context, email, passwordHash string) error

	// Delete removes the account with the given email.
	Delete(ctx context.Context, email string) error
}
