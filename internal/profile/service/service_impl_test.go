package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smitnayi/metamorph-inventory/internal/auth/domain"
	"github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	profilerepository "github.com/smitnayi/metamorph-inventory/internal/profile/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProfileService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
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
		&domain.UserProfile{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  profilerepository.ProvideRepository(),
	})
	return svc, db, node
}

func seedUser(t *testing.T, db *gorm.DB, node *snowflake.Node, username string) snowflake.ID {
	t.Helper()
	user := &authdomain.User{
		ID:           node.Generate(),
		Username:     username,
		PasswordHash: "x",
		Active:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func TestGetOrCreateLazyViewer(t *testing.T) {
	svc, db, node := setupProfileService(t)
	ctx := context.Background()

	userID := seedUser(t, db, node, "jdoe")

	profile, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleViewer, profile.Role)

	// A second call returns the stored profile instead of a new one.
	again, err := svc.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, profile.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&domain.UserProfile{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestCreateWithRoleValidates(t *testing.T) {
	svc, db, node := setupProfileService(t)
	ctx := context.Background()

	userID := seedUser(t, db, node, "jdoe")

	_, err := svc.CreateWithRole(ctx, userID, "superuser")
	require.ErrorIs(t, err, domain.ErrInvalidRole)

	profile, err := svc.CreateWithRole(ctx, userID, domain.RoleQC)
	require.NoError(t, err)
	require.Equal(t, domain.RoleQC, profile.Role)
}

func TestSetRoleUpdatesExistingProfile(t *testing.T) {
	svc, db, node := setupProfileService(t)
	ctx := context.Background()

	userID := seedUser(t, db, node, "jdoe")
	_, err := svc.CreateWithRole(ctx, userID, domain.RoleOperator)
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(ctx, userID, domain.RoleManager))

	var profile domain.UserProfile
	require.NoError(t, db.Where("user_id = ?", userID).Take(&profile).Error)
	require.Equal(t, domain.RoleManager, profile.Role)

	require.ErrorIs(t, svc.SetRole(ctx, userID, "root"), domain.ErrInvalidRole)
}

func TestSetRoleCreatesMissingProfile(t *testing.T) {
	svc, db, node := setupProfileService(t)
	ctx := context.Background()

	userID := seedUser(t, db, node, "jdoe")

	require.NoError(t, svc.SetRole(ctx, userID, domain.RoleManager))

	var profile domain.UserProfile
	require.NoError(t, db.Where("user_id = ?", userID).Take(&profile).Error)
	require.Equal(t, domain.RoleManager, profile.Role)
}

func TestBackfillCreatesViewerProfiles(t *testing.T) {
	svc, db, node := setupProfileService(t)
	ctx := context.Background()

	covered := seedUser(t, db, node, "covered")
	_, err := svc.CreateWithRole(ctx, covered, domain.RoleAdmin)
	require.NoError(t, err)

	seedUser(t, db, node, "missing-1")
	seedUser(t, db, node, "missing-2")

	created, err := svc.Backfill(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	var count int64
	require.NoError(t, db.Model(&domain.UserProfile{}).Count(&count).Error)
	require.Equal(t, int64(3), count)

	// Idempotent: a second pass finds nothing to do.
	created, err = svc.Backfill(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, created)
}
