package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"renovatrack/internal/repository"
	"renovatrack/internal/service"
)

type SubscriberHandler struct {
	dripService *service.DripService
}

func NewSubscriberHandler(dripService *service.DripService) *SubscriberHandler {
	return &SubscriberHandler{dripService: dripService}
}

// Unsubscribe handles POST /api/subscribers/unsubscribe (public link in every
// drip email). Deactivates the subscriber and cancels pending steps.
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.dripService.Cancel(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Do not reveal whether the address was subscribed.
			c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}

// List handles GET /api/subscribers (admin).
func (h *SubscriberHandler) List(c *gin.Context) {
	subscribers, err := h.dripService.ListSubscribers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}

// ListSends handles GET /api/campaign-sends (admin).
func (h *SubscriberHandler) ListSends(c *gin.Context) {
	sends, err := h.dripService.ListSends(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sends": sends})
}
