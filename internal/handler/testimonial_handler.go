package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renovatrack/internal/model"
	"renovatrack/internal/repository"
	"renovatrack/internal/service"
)

type TestimonialHandler struct {
	testimonials repository.TestimonialRepository
}

func NewTestimonialHandler(testimonials repository.TestimonialRepository) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

// ListPublished handles GET /api/testimonials (public marketing page).
func (h *TestimonialHandler) ListPublished(c *gin.Context) {
	testimonials, err := h.testimonials.List(c.Request.Context(), true)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}

// Create handles POST /api/testimonials (admin).
func (h *TestimonialHandler) Create(c *gin.Context) {
	var req struct {
		ClientName  string `json:"client_name" binding:"required"`
		Location    string `json:"location"`
		Rating      int    `json:"rating" binding:"required"`
		Text        string `json:"text" binding:"required"`
		ProjectType string `json:"project_type"`
		Published   bool   `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidRating.Error()})
		return
	}

	t := &model.Testimonial{
		ClientName:  req.ClientName,
		Location:    req.Location,
		Rating:      req.Rating,
		Text:        req.Text,
		ProjectType: req.ProjectType,
		Published:   req.Published,
	}
	if err := h.testimonials.Insert(c.Request.Context(), t); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}
