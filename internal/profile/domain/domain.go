package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Role values carried by a user profile. Authorization policies key off
// these strings, so they must stay stable once persisted.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
	RoleQC       = "qc"
	RoleViewer   = "viewer"
)

var (
	ErrProfileNotFound = errors.New("profile_not_found")
	ErrInvalidRole     = errors.New("invalid_role")
)

// ValidRole reports whether role is one of the known profile roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleOperator, RoleQC, RoleViewer:
		return true
	}
	return false
}

// UserProfile attaches a role and contact details to a user account.
// Profiles are created lazily with the viewer role when an account
// predates profile tracking.
type UserProfile struct {
	ID        snowflake.ID `json:"id,string" gorm:"primaryKey"`
	UserID    snowflake.ID `json:"user_id,string" gorm:"uniqueIndex;not null"`
	Role      string       `json:"role" gorm:"size:32;not null;default:viewer"`
	Phone     string       `json:"phone" gorm:"size:32"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, profile *UserProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*UserProfile, error)
	UpdateRole(ctx context.Context, db *gorm.DB, userID snowflake.ID, role string) error
	ListMissing(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
}

type Service interface {
	// GetOrCreate returns the profile for userID, creating one with the
	// viewer role when none exists yet.
	GetOrCreate(ctx context.Context, userID snowflake.ID) (*UserProfile, error)

	// CreateWithRole provisions a profile for a fresh account.
	CreateWithRole(ctx context.Context, userID snowflake.ID, role string) (*UserProfile, error)

	// SetRole replaces the role on an existing profile.
	SetRole(ctx context.Context, userID snowflake.ID, role string) error

	// Backfill creates viewer profiles for every user that lacks one and
	// returns how many were created.
	Backfill(ctx context.Context) (int, error)
}
