package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	"github.com/smitnayi/metamorph-inventory/pkg/db"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    productiondomain.Repository
	LogRepo productiondomain.LogRepository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    productiondomain.Repository
	logRepo productiondomain.LogRepository
	genID   *snowflake.Node
}

func New(p Params) productiondomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("production.service"),
		repo:    p.Repo,
		logRepo: p.LogRepo,
		genID:   p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req productiondomain.CreateRequest) (*productiondomain.Response, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, productiondomain.ErrInvalidOrderID
	}
	productName := strings.TrimSpace(req.ProductName)
	if productName == "" {
		return nil, productiondomain.ErrInvalidProductName
	}
	if req.Quantity < 0 {
		return nil, productiondomain.ErrInvalidQuantity
	}

	if existing, err := s.repo.FindByOrderID(ctx, s.db, orderID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, productiondomain.ErrOrderExists
	}

	now := time.Now().UTC()
	o := &productiondomain.Order{
		ID:          s.genID.Generate(),
		OrderID:     orderID,
		ProductName: productName,
		Line:        strings.TrimSpace(req.Line),
		Quantity:    req.Quantity,
		DueDate:     req.DueDate,
		Status:      productiondomain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, o); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, productiondomain.ErrOrderExists
		}
		return nil, err
	}

	s.log.Info("production order created",
		zap.String("id", o.ID.String()),
		zap.String("order_id", o.OrderID),
	)
	return s.toResponse(o), nil
}

func (s *Service) List(ctx context.Context, status string, page pagination.Pagination) ([]productiondomain.Response, *pagination.PageInfo, error) {
	status = strings.TrimSpace(status)
	if status != "" && !productiondomain.ValidStatus(status) {
		return nil, nil, productiondomain.ErrInvalidStatus
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 25
	}

	filter := productiondomain.ListFilter{Status: status, Limit: limit + 1}
	if token := strings.TrimSpace(page.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, nil, productiondomain.ErrInvalidID
		}
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, nil, productiondomain.ErrInvalidID
		}
		filter.AfterID = afterID
	}

	orders, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, nil, err
	}

	orders, pageInfo := pagination.BuildCursorPageInfo(orders, limit, func(o productiondomain.Order) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: o.ID.String()})
		return token
	})

	resp := make([]productiondomain.Response, 0, len(orders))
	for i := range orders {
		resp = append(resp, *s.toResponse(&orders[i]))
	}
	return resp, &pageInfo, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*productiondomain.Response, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(o), nil
}

func (s *Service) Update(ctx context.Context, req productiondomain.UpdateRequest) (*productiondomain.Response, error) {
	o, err := s.findOrder(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.ProductName != nil {
		name := strings.TrimSpace(*req.ProductName)
		if name == "" {
			return nil, productiondomain.ErrInvalidProductName
		}
		o.ProductName = name
	}
	if req.Line != nil {
		o.Line = strings.TrimSpace(*req.Line)
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, productiondomain.ErrInvalidQuantity
		}
		o.Quantity = *req.Quantity
	}
	if req.DueDate != nil {
		o.DueDate = req.DueDate
	}

	o.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, o); err != nil {
		return nil, err
	}
	return s.toResponse(o), nil
}

// Transition moves an order along the state machine. The completion
// timestamp is stamped exactly once, on the transition into completed,
// and never overwritten afterwards.
func (s *Service) Transition(ctx context.Context, id string, target string) (*productiondomain.Response, error) {
	target = strings.TrimSpace(target)
	if !productiondomain.ValidStatus(target) {
		return nil, productiondomain.ErrInvalidStatus
	}

	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == target {
		return s.toResponse(o), nil
	}
	if !productiondomain.CanTransition(o.Status, target) {
		return nil, productiondomain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	o.Status = target
	if target == productiondomain.StatusCompleted && o.CompletedAt == nil {
		o.CompletedAt = &now
	}
	o.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, o); err != nil {
		return nil, err
	}

	s.log.Info("production order transitioned",
		zap.String("order_id", o.OrderID),
		zap.String("status", o.Status),
	)
	return s.toResponse(o), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, o.ID)
}

func (s *Service) CreateLog(ctx context.Context, req productiondomain.LogCreateRequest) (*productiondomain.LogResponse, error) {
	productName := strings.TrimSpace(req.ProductName)
	if productName == "" {
		return nil, productiondomain.ErrInvalidProductName
	}
	operator := strings.TrimSpace(req.OperatorName)
	if operator == "" {
		return nil, productiondomain.ErrInvalidOperator
	}
	if req.Quantity < 0 {
		return nil, productiondomain.ErrInvalidQuantity
	}

	now := time.Now().UTC()
	l := &productiondomain.Log{
		ID:           s.genID.Generate(),
		Date:         now.Format("2006-01-02"),
		ProductName:  productName,
		Quantity:     req.Quantity,
		OperatorName: operator,
		CreatedAt:    now,
	}
	if err := s.logRepo.Insert(ctx, s.db, l); err != nil {
		return nil, err
	}

	s.log.Info("shift log recorded",
		zap.String("id", l.ID.String()),
		zap.String("product_name", l.ProductName),
		zap.String("operator", l.OperatorName),
	)
	return s.toLogResponse(l), nil
}

func (s *Service) ListLogs(ctx context.Context, limit int) ([]productiondomain.LogResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	logs, err := s.logRepo.ListRecent(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]productiondomain.LogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, *s.toLogResponse(&logs[i]))
	}
	return resp, nil
}

func (s *Service) DeleteLog(ctx context.Context, id string) error {
	parsed, err := productiondomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return productiondomain.ErrInvalidID
	}
	l, err := s.logRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return err
	}
	if l == nil {
		return productiondomain.ErrNotFound
	}
	return s.logRepo.Delete(ctx, s.db, l.ID)
}

func (s *Service) toLogResponse(l *productiondomain.Log) *productiondomain.LogResponse {
	return &productiondomain.LogResponse{
		ID:           l.ID.String(),
		Date:         l.Date,
		ProductName:  l.ProductName,
		Quantity:     l.Quantity,
		OperatorName: l.OperatorName,
		CreatedAt:    l.CreatedAt,
	}
}

// findOrder resolves id either as an internal snowflake ID or as the
// human-facing order code.
func (s *Service) findOrder(ctx context.Context, id string) (*productiondomain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, productiondomain.ErrInvalidID
	}

	if parsed, err := productiondomain.ParseID(id); err == nil {
		o, err := s.repo.FindByID(ctx, s.db, parsed)
		if err != nil {
			return nil, err
		}
		if o != nil {
			return o, nil
		}
	}

	o, err := s.repo.FindByOrderID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, productiondomain.ErrNotFound
	}
	return o, nil
}

func (s *Service) toResponse(o *productiondomain.Order) *productiondomain.Response {
	return &productiondomain.Response{
		ID:              o.ID.String(),
		OrderID:         o.OrderID,
		ProductName:     o.ProductName,
		Line:            o.Line,
		Quantity:        o.Quantity,
		DueDate:         o.DueDate,
		Status:          o.Status,
		ElectricityUsed: o.ElectricityUsed,
		GasUsed:         o.GasUsed,
		WaterUsed:       o.WaterUsed,
		CompletedAt:     o.CompletedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
