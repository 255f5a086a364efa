package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/accountd/accountd-go/internal/crypto"
	"github.com/accountd/accountd-go/internal/model"
	"github.com/accountd/accountd-go/internal/repository"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrEmailTaken       = errors.New("email already taken")
	ErrAccountNotFound  = errors.New("account not found")
	ErrNotAccountOwner  = errors.New("token does not match account")
)

// AccountService handles account business logic. The signing secret and
// token lifetime are fixed at construction.
type AccountService struct {
	repo      repository.AccountRepository
	validate  *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo repository.AccountRepository, secret string, ttl time.Duration) *AccountService {
	return &AccountService{
		repo:      repo,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		jwtSecret: secret,
		tokenTTL:  ttl,
	}
}

// Register creates a new account and returns a freshly issued token. The
// store's unique key is the only duplicate guard; a duplicate-key insert is
// reported as ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (model.TokenResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return model.TokenResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.TokenResponse{}, err
	}

	account := &model.Account{
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.TokenResponse{}, ErrEmailTaken
		}
		return model.TokenResponse{}, err
	}

	token, err := crypto.IssueToken(account.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{Token: token}, nil
}

// Login authenticates an account and returns a freshly issued token. An
// unknown email and a wrong password both come back as ErrWrongCredentials,
// so callers cannot probe which emails are registered.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return model.TokenResponse{}, err
	}

	account, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.TokenResponse{}, ErrWrongCredentials
		}
		return model.TokenResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match {
		return model.TokenResponse{}, ErrWrongCredentials
	}

	token, err := crypto.IssueToken(account.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{Token: token}, nil
}

// Profile returns the stored account record for an authenticated email.
func (s *AccountService) Profile(ctx context.Context, email string) (model.AccountResponse, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.AccountResponse{}, ErrAccountNotFound
		}
		return model.AccountResponse{}, err
	}

	return model.AccountResponse{
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
	}, nil
}

// UpdatePassword replaces the password hash for email. The caller must be
// the account owner: authedEmail has to equal the target email.
func (s *AccountService) UpdatePassword(ctx context.Context, authedEmail, email string, req model.UpdatePasswordRequest) error {
	if authedEmail != email {
		return ErrNotAccountOwner
	}
	if err := s.validateRequest(req); err != nil {
		return err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	return nil
}

// Delete removes the account with the body-supplied email.
func (s *AccountService) Delete(ctx context.Context, req model.DeleteRequest) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, req.Email); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	return nil
}

// validateRequest runs struct-tag validation and folds the first failure into
// ErrInvalidRequest with a user-facing message.
func (s *AccountService) validateRequest(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "email" {
			return fmt.Errorf("%w: invalid email address", ErrInvalidRequest)
		}
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, strings.ToLower(fe.Field()))
	}

	return ErrInvalidRequest
}
