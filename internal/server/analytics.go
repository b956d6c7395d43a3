package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/smitnayi/metamorph-inventory/internal/analytics/domain"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
)

const defaultAnalyticsWindowDays = 7

func (s *Server) AnalyticsDailyWindow(c *gin.Context) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(defaultAnalyticsWindowDays - 1))

	if raw := c.Query("end"); raw != "" {
		parsed, err := utilitydomain.ParseDay(raw)
		if err != nil {
			AbortWithError(c, utilitydomain.ErrInvalidDate)
			return
		}
		end = parsed
	}
	if raw := c.Query("start"); raw != "" {
		parsed, err := utilitydomain.ParseDay(raw)
		if err != nil {
			AbortWithError(c, utilitydomain.ErrInvalidDate)
			return
		}
		start = parsed
	}

	records := make([]analyticsdomain.DailyRecord, 0, defaultAnalyticsWindowDays)
	for record, err := range s.analyticsSvc.DailyWindow(c.Request.Context(), start, end) {
		if err != nil {
			AbortWithError(c, err)
			return
		}
		records = append(records, record)
	}

	c.JSON(http.StatusOK, gin.H{"daily": records})
}

func (s *Server) AnalyticsMonthly(c *gin.Context) {
	reference := time.Now().UTC()
	if raw := c.Query("reference"); raw != "" {
		parsed, err := utilitydomain.ParseDay(raw)
		if err != nil {
			AbortWithError(c, utilitydomain.ErrInvalidDate)
			return
		}
		reference = parsed
	}

	comparison, err := s.analyticsSvc.MonthOverMonth(c.Request.Context(), reference)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}
