package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukuvago/themeboard/internal/access"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/config"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"github.com/ukuvago/themeboard/internal/testutil"
	"gorm.io/gorm"
)

func newTestAuthService(t *testing.T) (*AuthService, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiration:  1,
		AdminEmail:     "root@example.com",
		AdminPassword:  "rootpass",
		AdminSecretKey: "let-me-in",
		AppName:        "Test",
	}
	db := testutil.NewDB(t)
	return NewAuthService(cfg, repository.NewUserRepository(db)), cfg
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: " Dana@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	got, token, err := svc.Login(ctx, "dana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, access.Principal{UserID: user.ID, Email: user.Email, Role: access.RoleUser}, claims.Principal())
}

func TestAuthService_Register_Errors(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Dana", Email: "DANA@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{Name: "Eve", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "123"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Name: " ", Email: "eve@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_Login_Rejects(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "dana@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, _, err = svc.LoginAdmin(ctx, "dana@example.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	input := RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"}

	_, err := svc.RegisterAdmin(ctx, input, access.Principal{}, "wrong-key")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	_, err = svc.RegisterAdmin(ctx, input, access.Principal{Role: access.RoleUser}, "")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	admin, err := svc.RegisterAdmin(ctx, input, access.Principal{}, "let-me-in")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	second, err := svc.RegisterAdmin(ctx, RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "secret1"},
		access.Principal{UserID: admin.ID, Role: access.RoleAdmin}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, second.Role)

	_, token, err := svc.LoginAdmin(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	svc, cfg := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx))
	require.NoError(t, svc.EnsureAdmin(ctx))

	user, _, err := svc.LoginAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc, cfg := newTestAuthService(t)

	user := &models.User{Email: "x@example.com", Role: models.RoleAdmin}
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "tampered")
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: "x@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Error(t, err)

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiration: 1}, nil)
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)
}

// staleUserRepository misses every email lookup, as a registration racing
// another one for the same address would.
type staleUserRepository struct {
	repository.UserRepository
}

func (staleUserRepository) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestAuthService_Register_ConcurrentDuplicateIsConflict(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(&config.Config{JWTSecret: "s", JWTExpiration: 1}, staleUserRepository{repository.NewUserRepository(db)})
	ctx := context.Background()

	input := RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "Email already registered", apperrors.Message(err))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.User{}, ""))
}

func TestAuthService_ValidAdminKey(t *testing.T) {
	svc, cfg := newTestAuthService(t)

	assert.True(t, svc.validAdminKey("let-me-in"))
	for _, key := range []string{"", "let-me", "let-me-in!", "LET-ME-IN"} {
		assert.False(t, svc.validAdminKey(key), key)
	}

	cfg.AdminSecretKey = ""
	assert.False(t, svc.validAdminKey(""))
}
