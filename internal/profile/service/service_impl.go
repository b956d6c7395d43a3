package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smitnayi/metamorph-inventory/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("profile.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) GetOrCreate(ctx context.Context, userID snowflake.ID) (*domain.UserProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	// Accounts created before profile tracking existed get a viewer
	// profile on first touch.
	created, err := s.CreateWithRole(ctx, userID, domain.RoleViewer)
	if err != nil {
		// A concurrent request may have won the race. Re-read before
		// giving up.
		if existing, ferr := s.repo.FindByUserID(ctx, s.db, userID); ferr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.log.Info("profile created lazily", zap.String("user_id", userID.String()))
	return created, nil
}

func (s *Service) CreateWithRole(ctx context.Context, userID snowflake.ID, role string) (*domain.UserProfile, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	profile := &domain.UserProfile{
		ID:     s.genID.Generate(),
		UserID: userID,
		Role:   role,
	}
	if err := s.repo.Create(ctx, s.db, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Service) SetRole(ctx context.Context, userID snowflake.ID, role string) error {
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	if err := s.repo.UpdateRole(ctx, s.db, userID, role); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			_, cerr := s.CreateWithRole(ctx, userID, role)
			return cerr
		}
		return err
	}
	return nil
}

func (s *Service) Backfill(ctx context.Context) (int, error) {
	missing, err := s.repo.ListMissing(ctx, s.db)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, userID := range missing {
		if _, err := s.CreateWithRole(ctx, userID, domain.RoleViewer); err != nil {
			return created, err
		}
		created++
	}

	if created > 0 {
		s.log.Info("backfilled missing profiles", zap.Int("count", created))
	}
	return created, nil
}
