package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/config"
	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/repository"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// AuthService handles registration, login and password changes.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// TokenManager exposes the token manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterInput describes a self-registration payload.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates an account after validating required fields and
// username/email uniqueness. No partial write occurs on failure.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	details := map[string]any{}
	if username == "" {
		details["username"] = "required"
	}
	if email == "" {
		details["email"] = "required"
	}
	if firstName == "" {
		details["first_name"] = "required"
	}
	if lastName == "" {
		details["last_name"] = "required"
	}
	if input.Password == "" {
		details["password"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("all fields are required", details)
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
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. The same
// generic error covers unknown usernames and wrong passwords.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", nil, apperrors.NewUnauthorized("invalid credentials")
	}
	token, _, err := s.tokens.GenerateToken(user.ID, user.Admin)
	if err != nil {
		return "", nil, apperrors.MapError(err)
	}
	return token, user, nil
}

// ChangePassword updates the principal's own password after verifying
// the current one.
func (s *AuthService) ChangePassword(ctx context.Context, p domain.Principal, current, next string) error {
	if strings.TrimSpace(next) == "" {
		return apperrors.NewValidationError("new password is required", nil)
	}
	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password does not match")
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.users.UpdatePasswordHash(ctx, user.ID, hash))
}

// EnsureBootstrapAdmin creates the initial admin account when the user
// table is empty, so a fresh deployment is reachable.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	admin := &domain.User{
		Username:     username,
		FirstName:    "Admin",
		LastName:     "Master",
		Email:        "admin@tickets.local",
		PasswordHash: hash,
		Admin:        true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return nil
}
