package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/repository"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// UserAdminService implements the back-office user management panel.
// Every operation requires an admin principal.
type UserAdminService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserAdminService creates the service.
func NewUserAdminService(users repository.UserRepository, bcryptCost int) *UserAdminService {
	return &UserAdminService{users: users, bcryptCost: bcryptCost}
}

// AdminUserInput describes user creation/update from the panel.
type AdminUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Admin     bool
	SectorIDs []int64
}

// ListUsers returns the sorted, searchable user table.
func (s *UserAdminService) ListUsers(ctx context.Context, p domain.Principal, opts repository.UserListOptions) ([]domain.User, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// CreateUser registers an account on behalf of an admin, including
// sector memberships and the admin flag.
func (s *UserAdminService) CreateUser(ctx context.Context, p domain.Principal, input AdminUserInput) (*domain.User, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.FirstName == "" || input.LastName == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("all fields are required", nil)
	}
	if existing, err := s.users.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperrors.NewValidationError("username already in use", map[string]any{"username": username})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewValidationError("email already in use", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Username:     username,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
		Admin:        input.Admin,
		SectorIDs:    input.SectorIDs,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUser edits an account. An admin cannot remove their own admin
// flag; that would lock the panel behind a missing permission.
func (s *UserAdminService) UpdateUser(ctx context.Context, p domain.Principal, userID int64, input AdminUserInput) (*domain.User, error) {
	if !p.Admin {
		return nil, apperrors.NewForbidden("access denied")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	if username := strings.TrimSpace(input.Username); username != "" {
		user.Username = username
	}
	if firstName := strings.TrimSpace(input.FirstName); firstName != "" {
		user.FirstName = firstName
	}
	if lastName := strings.TrimSpace(input.LastName); lastName != "" {
		user.LastName = lastName
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		user.Email = email
	}

	if user.ID == p.ID {
		if user.Admin && !input.Admin {
			return nil, apperrors.NewValidationError("you cannot remove your own admin permission", nil)
		}
	} else {
		user.Admin = input.Admin
	}
	user.SectorIDs = input.SectorIDs

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserAdminService) DeleteUser(ctx context.Context, p domain.Principal, userID int64) error {
	if !p.Admin {
		return apperrors.NewForbidden("access denied")
	}
	if userID == p.ID {
		return apperrors.NewValidationError("you cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	return nil
}
