package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"renovatrack/internal/model"
	"renovatrack/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type createProjectRequest struct {
	ClientName          string   `json:"client_name" binding:"required"`
	ClientEmail         string   `json:"client_email" binding:"required,email"`
	ClientPhone         string   `json:"client_phone"`
	ProjectType         string   `json:"project_type" binding:"required"`
	Status              string   `json:"status"`
	Budget              float64  `json:"budget"`
	Progress            int      `json:"progress"`
	Manager             string   `json:"manager"`
	EstimatedCompletion string   `json:"estimated_completion"`
	Tags                []string `json:"tags"`
	Address             string   `json:"address"`
	Notes               string   `json:"notes"`
}

// Create handles POST /api/projects. The response includes the freshly
// minted magic-link token.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p := &model.Project{
		ClientName:          req.ClientName,
		ClientEmail:         req.ClientEmail,
		ClientPhone:         req.ClientPhone,
		ProjectType:         req.ProjectType,
		Status:              model.ProjectStatus(req.Status),
		Budget:              req.Budget,
		Progress:            req.Progress,
		Manager:             req.Manager,
		EstimatedCompletion: req.EstimatedCompletion,
		Tags:                req.Tags,
		Address:             req.Address,
		Notes:               req.Notes,
	}
	if p.Status == "" {
		p.Status = model.ProjectConsultation
	}

	if err := h.projectService.Create(c.Request.Context(), p, actor(c)); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) || errors.Is(err, service.ErrInvalidProgress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	current, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	// Bind over a copy of the current state so omitted fields keep their
	// values.
	req := *current
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.ID = id

	updated, err := h.projectService.Update(c.Request.Context(), &req, actor(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) || errors.Is(err, service.ErrInvalidProgress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateStatus handles PATCH /api/projects/:id/status
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
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

	p, err := h.projectService.UpdateStatus(c.Request.Context(), id, model.ProjectStatus(req.Status), actor(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProgress handles PATCH /api/projects/:id/progress
func (h *ProjectHandler) UpdateProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Progress *int `json:"progress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.projectService.UpdateProgress(c.Request.Context(), id, *req.Progress, actor(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidProgress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// RegenerateLink handles POST /api/projects/:id/regenerate-link
func (h *ProjectHandler) RegenerateLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.projectService.RegenerateToken(c.Request.Context(), id, actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Logs handles GET /api/projects/:id/logs
func (h *ProjectHandler) Logs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	logs, err := h.projectService.Logs(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// ListMilestones handles GET /api/projects/:id/milestones
func (h *ProjectHandler) ListMilestones(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	milestones, err := h.projectService.ListMilestones(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

// CreateMilestone handles POST /api/projects/:id/milestones
func (h *ProjectHandler) CreateMilestone(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	m := &model.Milestone{
		ProjectID:   id,
		Title:       req.Title,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := h.projectService.CreateMilestone(c.Request.Context(), m); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMilestoneStatus handles PATCH /api/milestones/:id
func (h *ProjectHandler) UpdateMilestoneStatus(c *gin.Context) {
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

	m, err := h.projectService.UpdateMilestoneStatus(c.Request.Context(), id, model.MilestoneStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
