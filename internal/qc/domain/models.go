package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Report result values.
const (
	ResultPassed  = "passed"
	ResultFailed  = "failed"
	ResultPending = "pending"
)

// Report is one quality-control inspection record, optionally tied to
// a production order.
type Report struct {
	ID          snowflake.ID  `json:"id,string" gorm:"primaryKey"`
	ReportID    string        `json:"report_id" gorm:"column:report_id;type:text;not null;uniqueIndex"`
	ProductName string        `json:"product_name" gorm:"type:text;not null"`
	Inspector   string        `json:"inspector" gorm:"type:text"`
	TestDate    time.Time     `json:"test_date" gorm:"column:test_date;not null"`
	Result      string        `json:"result" gorm:"type:text;not null;default:pending;index"`
	OrderRef    *snowflake.ID `json:"order_ref,string,omitempty" gorm:"column:order_ref;index"`
	Notes       string        `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Report) TableName() string { return "qc_reports" }

// ValidResult reports whether result is a known inspection outcome.
func ValidResult(result string) bool {
	switch result {
	case ResultPassed, ResultFailed, ResultPending:
		return true
	}
	return false
}

// PassRateStats is the pass-rate summary over a set of reports.
type PassRateStats struct {
	Total    int64   `json:"total"`
	Passed   int64   `json:"passed"`
	Failed   int64   `json:"failed"`
	Pending  int64   `json:"pending"`
	PassRate float64 `json:"pass_rate"`
}
