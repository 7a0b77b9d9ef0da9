package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/repository"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

var adminPrincipal = domain.Principal{ID: 1, Admin: true}

func TestUserPanelRequiresAdmin(t *testing.T) {
	svc := NewUserAdminService(&mockUserRepo{}, bcrypt.MinCost)
	regular := domain.Principal{ID: 7}

	_, err := svc.ListUsers(context.Background(), regular, repository.UserListOptions{})
	assertForbidden(t, err)

	_, err = svc.CreateUser(context.Background(), regular, AdminUserInput{})
	assertForbidden(t, err)

	_, err = svc.UpdateUser(context.Background(), regular, 2, AdminUserInput{})
	assertForbidden(t, err)

	assertForbidden(t, svc.DeleteUser(context.Background(), regular, 2))
}

func TestCreateUserSetsSectorsAndAdminFlag(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *domain.User) error {
			user.ID = 9
			created = user
			return nil
		},
	}
	svc := NewUserAdminService(users, bcrypt.MinCost)

	user, err := svc.CreateUser(context.Background(), adminPrincipal, AdminUserInput{
		Username:  "carlos",
		FirstName: "Carlos",
		LastName:  "Souza",
		Email:     "carlos@example.com",
		Password:  "s3nha",
		Admin:     true,
		SectorIDs: []int64{2, 4},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.True(t, user.Admin)
	assert.Equal(t, []int64{2, 4}, user.SectorIDs)
	assert.NotEqual(t, "s3nha", created.PasswordHash)
}

func TestUpdateUserCannotDropOwnAdminFlag(t *testing.T) {
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "admin", Admin: true}, nil
		},
	}
	svc := NewUserAdminService(users, bcrypt.MinCost)

	_, err := svc.UpdateUser(context.Background(), adminPrincipal, adminPrincipal.ID, AdminUserInput{
		Admin: false,
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateUserCanDemoteOthers(t *testing.T) {
	var updated *domain.User
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "carlos", Admin: true, SectorIDs: []int64{2}}, nil
		},
		UpdateFunc: func(ctx context.Context, user *domain.User) error {
			updated = user
			return nil
		},
	}
	svc := NewUserAdminService(users, bcrypt.MinCost)

	user, err := svc.UpdateUser(context.Background(), adminPrincipal, 9, AdminUserInput{
		Admin:     false,
		SectorIDs: []int64{4},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.False(t, user.Admin)
	assert.Equal(t, []int64{4}, user.SectorIDs)
}

func TestDeleteUserBlocksSelfDelete(t *testing.T) {
	deleteCalled := false
	users := &mockUserRepo{
		DeleteFunc: func(ctx context.Context, id int64) error {
			deleteCalled = true
			return nil
		},
	}
	svc := NewUserAdminService(users, bcrypt.MinCost)

	err := svc.DeleteUser(context.Background(), adminPrincipal, adminPrincipal.ID)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.False(t, deleteCalled)

	require.NoError(t, svc.DeleteUser(context.Background(), adminPrincipal, 9))
	assert.True(t, deleteCalled)
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
