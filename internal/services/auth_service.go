// Package services – AuthService
//
// This file implements registration and login. Passwords are stored as
// bcrypt hashes and successful authentication yields a signed access token.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/auth"
	"github.com/ordersbridge/go-order-backend/internal/domain"
)

// AuthRepo defines the repository contract required by AuthService.
type AuthRepo interface {
	// CreateUser inserts a new user row.
	CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error

	// GetUserByEmail fetches a user by email address.
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
}

// AuthService handles account registration and credential verification.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo AuthRepo
	// Tokens signs access tokens for authenticated users.
	Tokens *auth.TokenService
	// Hasher derives and verifies password hashes.
	Hasher *auth.Hasher
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, r AuthRepo, tokens *auth.TokenService, hasher *auth.Hasher) *AuthService {
	return &AuthService{DB: db, Repo: r, Tokens: tokens, Hasher: hasher}
}

// RegisterInput carries the fields accepted at sign-up. Role is not among
// them: every new account starts as a customer regardless of what the
// request claimed.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// Register creates a new customer account and returns it with a signed
// access token. Returns ErrEmailTaken when the address is already in use.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if _, err := s.Repo.GetUserByEmail(ctx, s.DB, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     domain.RoleCustomer,
	}
	if err := s.Repo.CreateUser(ctx, s.DB, u); err != nil {
		return nil, "", err
	}

	tok, err := s.Tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.Repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !s.Hasher.Check(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.Tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}
