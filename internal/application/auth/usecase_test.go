package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/memory"
	"github.com/balagrajendran/purchase-management-sub000/pkg/jwt"
)

const secret = "test-secret"

func TestCreateUserAndLogin(t *testing.T) {
	store := memory.New()
	uc := NewAuthUseCase(store.Stores().Users, JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
	ctx := context.Background()

	user, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "Ops@Example.com", Password: "s3cretpass", Name: "Ops", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", user.Email)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)

	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "ops@example.com", Password: "another-pass", Role: "staff"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "x@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "y@example.com", Password: "longenough", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "OPS@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	id, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "admin", id.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ops@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	me, err := uc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ops", me.Name)
	_, err = uc.Me(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
