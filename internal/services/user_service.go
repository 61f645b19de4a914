// Package services – UserService
//
// This file implements user profile management: fetching, listing with
// pagination, partial updates with email uniqueness enforcement, password
// changes, and deletion.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/auth"
	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/repo"
)

// UserRepo defines the repository contract required by UserService.
type UserRepo interface {
	CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error
	GetUser(ctx context.Context, db *gorm.DB, id int) (*domain.User, error)
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
	ListUsers(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error)
	ListUsersByIDs(ctx context.Context, db *gorm.DB, ids []int) ([]domain.User, error)
	CountUsers(ctx context.Context, db *gorm.DB) (int64, error)
	UpdateUser(ctx context.Context, db *gorm.DB, id int, up repo.UserUpdate) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, db *gorm.DB, id int, hash string) error
	DeleteUser(ctx context.Context, db *gorm.DB, id int) error
}

// UserService provides user profile operations.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo
	// Hasher verifies current passwords and derives new hashes.
	Hasher *auth.Hasher
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, r UserRepo, hasher *auth.Hasher) *UserService {
	return &UserService{DB: db, Repo: r, Hasher: hasher}
}

// UserCreateInput carries the fields accepted when an admin provisions an
// account directly. Unlike self-registration it may assign the role.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Role     string
}

// Create provisions a new account with a hashed password. An empty role
// defaults to customer. Returns ErrEmailTaken when the address is already
// in use.
func (s *UserService) Create(ctx context.Context, in UserCreateInput) (*domain.User, error) {
	if _, err := s.Repo.GetUserByEmail(ctx, s.DB, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	u := &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     role,
	}
	if err := s.Repo.CreateUser(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id int) (*domain.User, error) {
	u, err := s.Repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ListPage returns a page of users and the total count. It applies defaults
// for invalid page/pageSize.
func (s *UserService) ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.User{}, 0, nil
	}

	items, err := s.Repo.ListUsers(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// GetByIDs returns the users whose ids exist. Unknown ids are skipped.
func (s *UserService) GetByIDs(ctx context.Context, ids []int) ([]domain.User, error) {
	return s.Repo.ListUsersByIDs(ctx, s.DB, ids)
}

// Update applies a partial profile update. When the email changes it must
// not collide with another account.
func (s *UserService) Update(ctx context.Context, id int, up repo.UserUpdate) (*domain.User, error) {
	if up.Email != nil {
		existing, err := s.Repo.GetUserByEmail(ctx, s.DB, *up.Email)
		switch {
		case err == nil && existing.ID != id:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	u, err := s.Repo.UpdateUser(ctx, s.DB, id, up)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id int, current, next string) error {
	u, err := s.Repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !s.Hasher.Check(u.Password, current) {
		return ErrWrongPassword
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}
	return s.Repo.UpdateUserPassword(ctx, s.DB, id, hash)
}

// Delete removes a user and, through the schema's cascade, their orders.
func (s *UserService) Delete(ctx context.Context, id int) error {
	err := s.Repo.DeleteUser(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
