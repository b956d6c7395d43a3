package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	productiondomain "github.com/smitnayi/metamorph-inventory/internal/production/domain"
	utilitydomain "github.com/smitnayi/metamorph-inventory/internal/utility/domain"
	"github.com/smitnayi/metamorph-inventory/pkg/db/pagination"
)

const defaultLogLimit = 50

type transitionRequest struct {
	Status string `json:"status"`
}

type orderUtilitiesRequest struct {
	ElectricityUsed float64 `json:"electricity_used"`
	GasUsed         float64 `json:"gas_used"`
	WaterUsed       float64 `json:"water_used"`
}

func (s *Server) ListOrders(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orders, pageInfo, err := s.productionSvc.List(c.Request.Context(), c.Query("status"), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"page_info": pageInfo,
	})
}

func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.productionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req productiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.productionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) UpdateOrder(c *gin.Context) {
	var req productiondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	order, err := s.productionSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) TransitionOrder(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.productionSvc.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) DeleteOrder(c *gin.Context) {
	if err := s.productionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) ListProductionLogs(c *gin.Context) {
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, invalidRequestError())
			return
		}
		limit = parsed
	}

	logs, err := s.productionSvc.ListLogs(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (s *Server) CreateProductionLog(c *gin.Context) {
	var req productiondomain.LogCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.productionSvc.CreateLog(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) DeleteProductionLog(c *gin.Context) {
	if err := s.productionSvc.DeleteLog(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// OrderUtilitiesDetail serves the consumption figures recorded against
// a single order.
func (s *Server) OrderUtilitiesDetail(c *gin.Context) {
	order, err := s.productionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":         order.OrderID,
		"product_name":     order.ProductName,
		"electricity_used": order.ElectricityUsed,
		"gas_used":         order.GasUsed,
		"water_used":       order.WaterUsed,
		"quantity":         order.Quantity,
		"status":           order.Status,
		"completed_at":     order.CompletedAt,
	})
}

// RecordOrderUtilities writes per-order consumption and returns the
// reconciled rollup when the order is already completed.
func (s *Server) RecordOrderUtilities(c *gin.Context) {
	var req orderUtilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rollup, err := s.utilitySvc.RecordOrderUsage(c.Request.Context(), c.Param("id"), utilitydomain.OrderUsage{
		Electricity: req.ElectricityUsed,
		Gas:         req.GasUsed,
		Water:       req.WaterUsed,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	order, err := s.productionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"order": order}
	if rollup != nil {
		resp["daily_rollup"] = rollup
	}
	c.JSON(http.StatusOK, resp)
}
