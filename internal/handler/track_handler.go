package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renovatrack/internal/service"
)

// TrackHandler serves the public client tracking portal. The magic-link
// token is the only access control; there is no session or login.
type TrackHandler struct {
	projectService *service.ProjectService
}

func NewTrackHandler(projectService *service.ProjectService) *TrackHandler {
	return &TrackHandler{projectService: projectService}
}

// Track handles GET /api/track/:token. An unknown or regenerated token is a
// plain 404; the client renders it as "project not found".
func (h *TrackHandler) Track(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	p, err := h.projectService.ResolveToken(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
