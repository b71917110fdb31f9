package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/shopdb-api/internal/application/auth"
	"github.com/jhoicas/shopdb-api/internal/application/dto"
	"github.com/jhoicas/shopdb-api/internal/domain"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/shopdb-api/internal/infrastructure/sqlite/sqlitetest"
	"github.com/jhoicas/shopdb-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	db := sqlitetest.New(t)
	return auth.NewAuthUseCase(sqlite.NewUserRepository(db), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "shopdb"}).
		WithCost(bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: " alice ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.UserID)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.UserID, res.User.UserID)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "shopdb", claims.Issuer)
}

func TestRegister_Rejections(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "al", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice", Password: "12345"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "alice", Password: "other12"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestLogin_BadCredentials(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "bob", Password: "hunter2"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "bob", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "hunter2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
