package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
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
	Repo  qcdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  qcdomain.Repository
	genID *snowflake.Node
}

func New(p Params) qcdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("qc.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req qcdomain.CreateRequest) (*qcdomain.Response, error) {
	reportID := strings.TrimSpace(req.ReportID)
	if reportID == "" {
		return nil, qcdomain.ErrInvalidReportID
	}
	productName := strings.TrimSpace(req.ProductName)
	if productName == "" {
		return nil, qcdomain.ErrInvalidProductName
	}

	result := strings.TrimSpace(req.Result)
	if result == "" {
		result = qcdomain.ResultPending
	}
	if !qcdomain.ValidResult(result) {
		return nil, qcdomain.ErrInvalidResult
	}

	if existing, err := s.repo.FindByReportID(ctx, s.db, reportID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, qcdomain.ErrReportExists
	}

	now := time.Now().UTC()
	testDate := now
	if req.TestDate != nil {
		testDate = req.TestDate.UTC()
	}

	var orderRef *snowflake.ID
	if raw := strings.TrimSpace(req.OrderRef); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, qcdomain.ErrInvalidID
		}
		orderRef = &parsed
	}

	report := &qcdomain.Report{
		ID:          s.genID.Generate(),
		ReportID:    reportID,
		ProductName: productName,
		Inspector:   strings.TrimSpace(req.Inspector),
		TestDate:    testDate,
		Result:      result,
		OrderRef:    orderRef,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, report); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, qcdomain.ErrReportExists
		}
		return nil, err
	}

	s.log.Info("qc report created",
		zap.String("report_id", report.ReportID),
		zap.String("result", report.Result),
	)
	return s.toResponse(report), nil
}

func (s *Service) List(ctx context.Context, result string, page pagination.Pagination) ([]qcdomain.Response, *pagination.PageInfo, error) {
	result = strings.TrimSpace(result)
	if result != "" && !qcdomain.ValidResult(result) {
		return nil, nil, qcdomain.ErrInvalidResult
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 25
	}

	filter := qcdomain.ListFilter{Result: result, Limit: limit + 1}
	if token := strings.TrimSpace(page.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, nil, qcdomain.ErrInvalidID
		}
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, nil, qcdomain.ErrInvalidID
		}
		filter.AfterID = afterID
	}

	reports, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, nil, err
	}

	reports, pageInfo := pagination.BuildCursorPageInfo(reports, limit, func(r qcdomain.Report) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: r.ID.String()})
		return token
	})

	resp := make([]qcdomain.Response, 0, len(reports))
	for i := range reports {
		resp = append(resp, *s.toResponse(&reports[i]))
	}
	return resp, &pageInfo, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*qcdomain.Response, error) {
	report, err := s.findReport(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(report), nil
}

func (s *Service) Update(ctx context.Context, req qcdomain.UpdateRequest) (*qcdomain.Response, error) {
	report, err := s.findReport(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Inspector != nil {
		report.Inspector = strings.TrimSpace(*req.Inspector)
	}
	if req.TestDate != nil {
		report.TestDate = req.TestDate.UTC()
	}
	if req.Result != nil {
		result := strings.TrimSpace(*req.Result)
		if !qcdomain.ValidResult(result) {
			return nil, qcdomain.ErrInvalidResult
		}
		report.Result = result
	}
	if req.Notes != nil {
		report.Notes = strings.TrimSpace(*req.Notes)
	}

	report.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, report); err != nil {
		return nil, err
	}
	return s.toResponse(report), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	report, err := s.findReport(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, report.ID)
}

func (s *Service) PassRate(ctx context.Context) (*qcdomain.PassRateStats, error) {
	counts, err := s.repo.CountByResult(ctx, s.db)
	if err != nil {
		return nil, err
	}

	stats := &qcdomain.PassRateStats{
		Passed:  counts[qcdomain.ResultPassed],
		Failed:  counts[qcdomain.ResultFailed],
		Pending: counts[qcdomain.ResultPending],
	}
	stats.Total = stats.Passed + stats.Failed + stats.Pending
	if stats.Total > 0 {
		rate := float64(stats.Passed) / float64(stats.Total) * 100
		stats.PassRate = math.Round(rate*10) / 10
	}
	return stats, nil
}

func (s *Service) findReport(ctx context.Context, id string) (*qcdomain.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, qcdomain.ErrInvalidID
	}

	if parsed, err := qcdomain.ParseID(id); err == nil {
		report, err := s.repo.FindByID(ctx, s.db, parsed)
		if err != nil {
			return nil, err
		}
		if report != nil {
			return report, nil
		}
	}

	report, err := s.repo.FindByReportID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, qcdomain.ErrNotFound
	}
	return report, nil
}

func (s *Service) toResponse(r *qcdomain.Report) *qcdomain.Response {
	resp := &qcdomain.Response{
		ID:          r.ID.String(),
		ReportID:    r.ReportID,
		ProductName: r.ProductName,
		Inspector:   r.Inspector,
		TestDate:    r.TestDate,
		Result:      r.Result,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.OrderRef != nil {
		resp.OrderRef = r.OrderRef.String()
	}
	return resp
}
