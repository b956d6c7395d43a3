package domain

import (
	"context"
	"errors"
	"time"
)

// Service is the utility reconciliation engine. It keeps exactly one
// UtilityData row per calendar date consistent with the orders
// completed on that date.
type Service interface {
	// UpsertDaily creates or replaces the rollup for the date with the
	// supplied values. Race-safe under concurrent same-date calls.
	UpsertDaily(ctx context.Context, date string, fields DailyFields) (*UtilityData, error)

	// SubmitReading appends one meter reading to the consumption
	// ledger and upserts the rollup for the current date.
	SubmitReading(ctx context.Context, req ReadingRequest) (*UtilityData, error)

	// RecordOrderUsage writes the order-scoped utility fields for the
	// named order, then reconciles the order's completion date when it
	// has one. Never transitions order status.
	RecordOrderUsage(ctx context.Context, orderID string, usage OrderUsage) (*UtilityData, error)

	// RecomputeDate rebuilds the date's rollup from completed orders.
	// Idempotent: repeated calls with no intervening order changes
	// yield identical totals.
	RecomputeDate(ctx context.Context, date string) (*UtilityData, error)

	GetByDate(ctx context.Context, date string) (*UtilityData, error)
	Range(ctx context.Context, from, to string) ([]UtilityData, error)

	LatestReading(ctx context.Context) (*Consumption, error)
	ListReadings(ctx context.Context, limit int) ([]Consumption, error)

	// FindDuplicateDates reports dates violating the one-row-per-date
	// invariant.
	FindDuplicateDates(ctx context.Context) ([]DuplicateGroup, error)

	// ResolveDate repairs a duplicated date by keeping the newest row
	// and deleting the rest. Newest wins: rows are ordered by creation
	// time descending and earlier data is discarded, not merged.
	ResolveDate(ctx context.Context, date string) (*UtilityData, error)
}

type DailyFields struct {
	Gas         float64 `json:"gas_consumption"`
	Electricity float64 `json:"electricity_usage"`
	Water       float64 `json:"water_usage"`
	Powder      float64 `json:"powder_consumption"`
}

type ReadingRequest struct {
	Gas         float64    `json:"gas_consumption"`
	Electricity float64    `json:"electricity_usage"`
	Water       float64    `json:"water_usage"`
	At          *time.Time `json:"-"`
}

type OrderUsage struct {
	Electricity float64 `json:"electricity_used"`
	Gas         float64 `json:"gas_used"`
	Water       float64 `json:"water_used"`
}

var (
	ErrInvalidDate   = errors.New("invalid_date")
	ErrOrderNotFound = errors.New("order_not_found")
	ErrNotFound      = errors.New("not_found")
	ErrNoDuplicates  = errors.New("no_duplicates")
)
