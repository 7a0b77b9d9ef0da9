package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/config"
	"github.com/atendesk/helpdesk/internal/domain"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

func newAuthService(users *mockUserRepo) *AuthService {
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
	}
	return NewAuthService(cfg, users, zap.NewNop())
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ana",
		Email:    "",
		Password: "",
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "email")
	assert.Contains(t, domainErr.Details, "password")
	assert.NotContains(t, domainErr.Details, "username")
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	users := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 3, Username: username}, nil
		},
	}
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:  "ana",
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     "ana@example.com",
		Password:  "s3nha",
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestRegisterHashesPassword(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *domain.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}
	svc := newAuthService(users)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username:  "ana",
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     "ana@example.com",
		Password:  "s3nha",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEqual(t, "s3nha", created.PasswordHash)
	assert.NoError(t, auth.ComparePassword(created.PasswordHash, "s3nha"))
	assert.False(t, user.Admin)
}

func TestLoginWrongPasswordIsGenericUnauthorized(t *testing.T) {
	hash, err := auth.HashPassword("correta", bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username, PasswordHash: hash}, nil
		},
	}
	svc := newAuthService(users)

	_, _, err = svc.Login(context.Background(), "ana", "errada")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	assert.Equal(t, "invalid credentials", domainErr.Message)

	// unknown username yields the same message
	svcUnknown := newAuthService(&mockUserRepo{})
	_, _, err = svcUnknown.Login(context.Background(), "ninguem", "tanto faz")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "invalid credentials", domainErr.Message)
}

func TestLoginIssuesParseableToken(t *testing.T) {
	hash, err := auth.HashPassword("s3nha", bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUserRepo{
		GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 42, Username: username, PasswordHash: hash, Admin: true}, nil
		},
	}
	svc := newAuthService(users)

	token, user, err := svc.Login(context.Background(), "ana", "s3nha")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.Admin)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	hash, err := auth.HashPassword("antiga", bcrypt.MinCost)
	require.NoError(t, err)
	updated := ""
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, PasswordHash: hash}, nil
		},
		UpdatePasswordHashFunc: func(ctx context.Context, id int64, newHash string) error {
			updated = newHash
			return nil
		},
	}
	svc := newAuthService(users)
	p := domain.Principal{ID: 7}

	err = svc.ChangePassword(context.Background(), p, "errada", "nova")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	assert.Empty(t, updated)

	require.NoError(t, svc.ChangePassword(context.Background(), p, "antiga", "nova"))
	assert.NoError(t, auth.ComparePassword(updated, "nova"))
}

func TestEnsureBootstrapAdminOnlyOnEmptyTable(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		CreateFunc: func(ctx context.Context, user *domain.User) error {
			user.ID = 1
			created = user
			return nil
		},
	}
	svc := newAuthService(users)

	require.NoError(t, svc.EnsureBootstrapAdmin(context.Background(), "admin", "admin"))
	require.NotNil(t, created)
	assert.True(t, created.Admin)
	assert.Equal(t, "admin", created.Username)

	created = nil
	users.CountFunc = func(ctx context.Context) (int64, error) { return 8, nil }
	require.NoError(t, svc.EnsureBootstrapAdmin(context.Background(), "admin", "admin"))
	assert.Nil(t, created, "bootstrap must not run on a populated table")
}
