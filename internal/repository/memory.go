package repository

import (
	"context"
	"sync"
	"time"

	"github.com/accountd/accountd-go/internal/model"
)

// MemoryRepository is an in-memory AccountRepository used by tests and local
// development. It enforces the same unique-email semantics as the MySQL
// implementation, including under concurrent inserts.
type MemoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*model.Account
	nextID   int64
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*model.Account),
	}
}

func (r *MemoryRepository) Create(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.Email]; exists {
		return ErrDuplicateEmail
	}

	r.nextID++
	account.ID = r.nextID
	now := time.Now().UTC()

	stored := *account
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.accounts[account.Email] = &stored

	return nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}

	copied := *account
	return &copied, nil
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[email]
	if !ok {
		return ErrAccountNotFound
	}

	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[email]; !ok {
		return ErrAccountNotFound
	}

	delete(r.accounts, email)
	return nil
}
