package service

import (
	"context"
	"testing"

	"inventra/internal/config"
	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService() AuthService {
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 2}
	return NewAuthService(memory.New().Set().Users, cfg)
}

func TestBootstrapAdminAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	created, err := svc.EnsureBootstrapAdmin(ctx, "", "Root@Inventra.test", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.EnsureBootstrapAdmin(ctx, "", "root@inventra.test", "other-pass")
	require.NoError(t, err)
	assert.False(t, created, "existing admin is left alone")

	skipped, err := svc.EnsureBootstrapAdmin(ctx, "", "", "")
	require.NoError(t, err)
	assert.False(t, skipped)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "root@inventra.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
	assert.Equal(t, 7200, resp.ExpiresIn)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims["user_id"])
	assert.Equal(t, model.RoleAdmin, claims["role"])

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "root@inventra.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@inventra.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserManagement(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Clara", Email: "clara@inventra.test", Password: "password1", Role: model.RoleClerk})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Clone", Email: "CLARA@inventra.test", Password: "password1", Role: model.RoleClerk})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)

	id := mustUUID(t, u.ID)
	updated, err := svc.UpdateUser(ctx, id, dto.UpdateUserRequest{Role: model.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, updated.Role)

	require.NoError(t, svc.DeactivateUser(ctx, id))
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "clara@inventra.test", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	me, err := svc.Me(ctx, id)
	require.NoError(t, err)
	assert.False(t, me.Active)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
