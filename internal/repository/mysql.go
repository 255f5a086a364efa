package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/accountd/accountd-go/internal/model"
)

// MySQLRepository is the MySQL-backed AccountRepository. The unique key on
// accounts.email is the authoritative guard against duplicate registration;
// there is deliberately no existence pre-check before insert.
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository creates a new MySQLRepository.
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Create inserts a new account and sets the generated ID on the account
// struct. A duplicate email surfaces as ErrDuplicateEmail.
func (r *MySQLRepository) Create(ctx context.Context, account *model.Account) error {
	query := `INSERT INTO accounts (email, password_hash) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, account.Email, account.PasswordHash)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	account.ID = id
	return nil
}

// GetByEmail retrieves an account by exact email match.
func (r *MySQLRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM accounts WHERE email = ?`

	account := &model.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return account, nil
}

// UpdatePassword replaces the stored password hash for an email.
func (r *MySQLRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = ? WHERE email = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// Delete removes the account with the given email.
func (r *MySQLRepository) Delete(ctx context.Context, email string) error {
	query := `DELETE FROM accounts WHERE email = ?`

	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// isDuplicateKeyError reports whether a MySQL error is a duplicate entry
// error (code 1062).
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
