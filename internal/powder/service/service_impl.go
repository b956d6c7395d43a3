package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	powderdomain "github.com/smitnayi/metamorph-inventory/internal/powder/domain"
	"github.com/smitnayi/metamorph-inventory/pkg/db"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  powderdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  powderdomain.Repository
	genID *snowflake.Node
}

func New(p Params) powderdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("powder.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req powderdomain.CreateRequest) (*powderdomain.Response, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, powderdomain.ErrInvalidSKU
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, powderdomain.ErrInvalidName
	}
	if req.CurrentStock < 0 || req.MinLevel < 0 {
		return nil, powderdomain.ErrInvalidStock
	}

	if existing, err := s.repo.FindBySKU(ctx, s.db, sku); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, powderdomain.ErrSKUExists
	}

	price := 0.0
	if req.PricePerKG != nil {
		if *req.PricePerKG < 0 {
			return nil, powderdomain.ErrInvalidStock
		}
		price = *req.PricePerKG
	}

	now := time.Now().UTC()
	p := &powderdomain.Powder{
		ID:           s.genID.Generate(),
		SKU:          sku,
		Name:         name,
		Color:        strings.TrimSpace(req.Color),
		Brand:        strings.TrimSpace(req.Brand),
		CurrentStock: req.CurrentStock,
		MinLevel:     req.MinLevel,
		PricePerKG:   price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, powderdomain.ErrSKUExists
		}
		return nil, err
	}

	s.log.Info("powder created", zap.String("powder_id", p.ID.String()), zap.String("sku", p.SKU))
	return s.toResponse(p), nil
}

func (s *Service) List(ctx context.Context, page pagination.Pagination) ([]powderdomain.Response, *pagination.PageInfo, error) {
	limit := page.PageSize
	if limit <= 0 {
		limit = 25
	}

	filter := powderdomain.ListFilter{Limit: limit + 1}
	if token := strings.TrimSpace(page.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, nil, powderdomain.ErrInvalidID
		}
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, nil, powderdomain.ErrInvalidID
		}
		filter.AfterID = afterID
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, nil, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, limit, func(p powderdomain.Powder) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: p.ID.String()})
		return token
	})

	resp := make([]powderdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *s.toResponse(&items[i]))
	}
	return resp, &pageInfo, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*powderdomain.Response, error) {
	powderID, err := powderdomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, powderdomain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, powderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, powderdomain.ErrNotFound
	}
	return s.toResponse(p), nil
}

func (s *Service) Update(ctx context.Context, req powderdomain.UpdateRequest) (*powderdomain.Response, error) {
	powderID, err := powderdomain.ParseID(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, powderdomain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, powderID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, powderdomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, powderdomain.ErrInvalidName
		}
		p.Name = name
	}
	if req.Color != nil {
		p.Color = strings.TrimSpace(*req.Color)
	}
	if req.Brand != nil {
		p.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.CurrentStock != nil {
		if *req.CurrentStock < 0 {
			return nil, powderdomain.ErrInvalidStock
		}
		p.CurrentStock = *req.CurrentStock
	}
	if req.MinLevel != nil {
		if *req.MinLevel < 0 {
			return nil, powderdomain.ErrInvalidStock
		}
		p.MinLevel = *req.MinLevel
	}
	if req.PricePerKG != nil {
		if *req.PricePerKG < 0 {
			return nil, powderdomain.ErrInvalidStock
		}
		p.PricePerKG = *req.PricePerKG
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, p); err != nil {
		return nil, err
	}
	return s.toResponse(p), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	powderID, err := powderdomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return powderdomain.ErrInvalidID
	}

	p, err := s.repo.FindByID(ctx, s.db, powderID)
	if err != nil {
		return err
	}
	if p == nil {
		return powderdomain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, powderID)
}

func (s *Service) Stats(ctx context.Context) (*powderdomain.InventoryStats, error) {
	items, err := s.repo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	stats := &powderdomain.InventoryStats{TotalItems: len(items)}
	for i := range items {
		stats.TotalStockKG += items[i].CurrentStock
		stats.TotalValue += items[i].StockValue()
		switch items[i].Status() {
		case powderdomain.StatusLowStock:
			stats.LowStockCount++
		case powderdomain.StatusCritical:
			stats.CriticalCount++
		}
	}
	return stats, nil
}

func (s *Service) toResponse(p *powderdomain.Powder) *powderdomain.Response {
	return &powderdomain.Response{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		Color:        p.Color,
		Brand:        p.Brand,
		CurrentStock: p.CurrentStock,
		MinLevel:     p.MinLevel,
		PricePerKG:   p.PricePerKG,
		Status:       p.Status(),
		StockValue:   p.StockValue(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
