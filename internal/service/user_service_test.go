package service_test

import (
	"context"
	"testing"

	"bookit/internal/domain"
	"bookit/internal/service"
	"bookit/pkg/apperrors"
	"bookit/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateMe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.UpdateMe(ctx, e.alice, service.UpdateProfileInput{Name: ptr("Alice Liddell"), Password: ptr("newpass")})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, utils.CheckPassword("newpass", u.PasswordHash))

	_, err = e.users.UpdateMe(ctx, e.alice, service.UpdateProfileInput{Email: ptr("BOB@example.com")})
	assert.Equal(t, apperrors.KindConflict, kind(err))

	_, err = e.users.UpdateMe(ctx, e.alice, service.UpdateProfileInput{Email: ptr("nope")})
	assert.Equal(t, apperrors.KindValidation, kind(err))

	same, err := e.users.UpdateMe(ctx, e.alice, service.UpdateProfileInput{Email: ptr("Alice@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", same.Email)
}

func TestAdminUserOps(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.users.List(ctx, e.alice, "", service.Page{})
	assert.Equal(t, apperrors.KindForbidden, kind(err))

	list, err := e.users.List(ctx, e.admin, "bob", service.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	_, err = e.users.SetRole(ctx, e.alice, e.bob.UserID, domain.RoleAdmin)
	assert.Equal(t, apperrors.KindForbidden, kind(err))

	_, err = e.users.SetRole(ctx, e.admin, e.bob.UserID, "owner")
	assert.Equal(t, apperrors.KindValidation, kind(err))

	_, err = e.users.SetRole(ctx, e.admin, e.admin.UserID, domain.RoleUser)
	assert.Equal(t, apperrors.KindValidation, kind(err))

	u, err := e.users.SetRole(ctx, e.admin, e.bob.UserID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = e.users.SetRole(ctx, e.admin, 999, domain.RoleAdmin)
	assert.Equal(t, apperrors.KindNotFound, kind(err))
}
