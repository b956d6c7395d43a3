package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
)

const defaultReadingLimit = 50

func (s *Server) UtilityRange(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	rows, err := s.utilitySvc.Range(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": rows})
}

func (s *Server) UtilityByDate(c *gin.Context) {
	row, err := s.utilitySvc.GetByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// UtilityToday serves the rollup for the current UTC date. A day
// without a rollup reads as zeros, not as 404.
func (s *Server) UtilityToday(c *gin.Context) {
	today := utilitydomain.DayOf(time.Now().UTC())
	row, err := s.utilitySvc.GetByDate(c.Request.Context(), today)
	if err != nil {
		if !errors.Is(err, utilitydomain.ErrNotFound) {
			AbortWithError(c, err)
			return
		}
		row = &utilitydomain.UtilityData{Date: today}
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) UpsertDaily(c *gin.Context) {
	var fields utilitydomain.DailyFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	row, err := s.utilitySvc.UpsertDaily(c.Request.Context(), c.Param("date"), fields)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) RecomputeDate(c *gin.Context) {
	row, err := s.utilitySvc.RecomputeDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) ListReadings(c *gin.Context) {
	limit := defaultReadingLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, invalidRequestError())
			return
		}
		limit = parsed
	}

	readings, err := s.utilitySvc.ListReadings(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"readings": readings})
}

func (s *Server) LatestReading(c *gin.Context) {
	reading, err := s.utilitySvc.LatestReading(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

func (s *Server) SubmitReading(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	limit, err := s.submitLimiter.Allow(c.Request.Context(), userID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !limit.Allowed {
		if limit.RetryAfter > 0 {
			seconds := int(math.Ceil(limit.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
		}
		AbortWithError(c, ErrRateLimited)
		return
	}

	var req utilitydomain.ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	row, err := s.utilitySvc.SubmitReading(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (s *Server) ListDuplicateDates(c *gin.Context) {
	groups, err := s.utilitySvc.FindDuplicateDates(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"duplicates": groups})
}

func (s *Server) ResolveDuplicateDate(c *gin.Context) {
	row, err := s.utilitySvc.ResolveDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "resolved",
		"kept":   row,
	})
}
