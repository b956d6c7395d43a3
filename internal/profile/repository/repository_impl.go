package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	"gorm.io/gorm"
)

type profileRepo struct{}

func ProvideRepository() domain.Repository {
	return &profileRepo{}
}

func (r *profileRepo) Create(ctx context.Context, db *gorm.DB, profile *domain.UserProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) UpdateRole(ctx context.Context, db *gorm.DB, userID snowflake.ID, role string) error {
	res := db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("user_id = ?", userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepo) ListMissing(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Table("users").
		Select("users.id").
		Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id").
		Where("user_profiles.id IS NULL").
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
