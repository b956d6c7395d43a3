package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	qcdomain "github.com/smitnayi/metamorph-inventory/internal/qc/domain"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
)

func (s *Server) ListQCReports(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reports, pageInfo, err := s.qcSvc.List(c.Request.Context(), c.Query("result"), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":   reports,
		"page_info": pageInfo,
	})
}

func (s *Server) QCPassRate(c *gin.Context) {
	stats, err := s.qcSvc.PassRate(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) GetQCReport(c *gin.Context) {
	report, err := s.qcSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) CreateQCReport(c *gin.Context) {
	var req qcdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.qcSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) UpdateQCReport(c *gin.Context) {
	var req qcdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	report, err := s.qcSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) DeleteQCReport(c *gin.Context) {
	if err := s.qcSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
