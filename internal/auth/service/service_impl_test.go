package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smitnayi/metamorph-inventory/internal/auth/domain"
	authrepository "github.com/smitnayi/metamorph-inventory/internal/auth/repository"
	profiledomain "github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	profilerepository "github.com/smitnayi/metamorph-inventory/internal/profile/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (authdomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&profiledomain.UserProfile{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        authrepository.ProvideUserRepository(),
		SessionRepo: authrepository.ProvideSessionRepository(),
		ProfileRepo: profilerepository.ProvideRepository(),
	})
	return svc, db
}

func registerUser(t *testing.T, svc authdomain.Service, username string) *authdomain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: username,
		Email:    username + "@factory.local",
		Password: "coating-line-9",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterCreatesOperatorProfile(t *testing.T) {
	svc, db := setupAuthService(t)

	user := registerUser(t, svc, "JDoe")
	require.Equal(t, "jdoe", user.Username, "usernames are stored lowercase")
	require.True(t, user.Active)

	var profile profiledomain.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).Take(&profile).Error)
	require.Equal(t, profiledomain.RoleOperator, profile.Role)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := setupAuthService(t)
	registerUser(t, svc, "jdoe")

	_, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "JDOE",
		Password: "coating-line-9",
	})
	require.ErrorIs(t, err, authdomain.ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authdomain.RegisterRequest{Username: "", Password: "coating-line-9"})
	require.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Register(ctx, authdomain.RegisterRequest{Username: "jdoe", Password: "short"})
	require.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Register(ctx, authdomain.RegisterRequest{Username: "jdoe", Password: "coating-line-9", Email: "not-an-email"})
	require.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "jdoe")

	result, err := svc.Login(ctx, authdomain.LoginRequest{Username: "JDoe", Password: "coating-line-9"})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)
	require.True(t, result.ExpiresAt.After(time.Now()))

	sess, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, sess.UserID)

	_, err = svc.Authenticate(ctx, "not-a-real-token")
	require.ErrorIs(t, err, authdomain.ErrInvalidSession)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t)
	registerUser(t, svc, "jdoe")

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{Username: "jdoe", Password: "wrong-password"})
	require.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{Username: "nobody", Password: "coating-line-9"})
	require.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	registerUser(t, svc, "jdoe")
	result, err := svc.Login(ctx, authdomain.LoginRequest{Username: "jdoe", Password: "coating-line-9"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	require.ErrorIs(t, err, authdomain.ErrSessionRevoked)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, db := setupAuthService(t)
	ctx := context.Background()

	registerUser(t, svc, "jdoe")
	result, err := svc.Login(ctx, authdomain.LoginRequest{Username: "jdoe", Password: "coating-line-9"})
	require.NoError(t, err)

	expired := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&authdomain.Session{}).
		Where("session_token_hash = ?", HashToken(result.RawToken)).
		Update("expires_at", expired).Error)

	_, err = svc.Authenticate(ctx, result.RawToken)
	require.ErrorIs(t, err, authdomain.ErrSessionExpired)
}
