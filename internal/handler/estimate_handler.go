package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renovatrack/internal/model"
	"renovatrack/internal/service"
)

type EstimateHandler struct {
	estimateService *service.EstimateService
}

func NewEstimateHandler(estimateService *service.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

// Create handles POST /api/estimates (public estimate-request form).
func (h *EstimateHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Phone       string `json:"phone"`
		ProjectType string `json:"project_type" binding:"required"`
		BudgetRange string `json:"budget_range"`
		Timeline    string `json:"timeline"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	e := &model.Estimate{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ProjectType: req.ProjectType,
		BudgetRange: req.BudgetRange,
		Timeline:    req.Timeline,
		Description: req.Description,
	}
	if err := h.estimateService.Create(c.Request.Context(), e); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// List handles GET /api/estimates
func (h *EstimateHandler) List(c *gin.Context) {
	estimates, err := h.estimateService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimates": estimates})
}

// UpdateStatus handles PATCH /api/estimates/:id/status
func (h *EstimateHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.estimateService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
