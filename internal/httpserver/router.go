package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renovatrack/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

type Handlers struct {
	Auth        *handler.AuthHandler
	Project     *handler.ProjectHandler
	Track       *handler.TrackHandler
	Lead        *handler.LeadHandler
	Estimate    *handler.EstimateHandler
	Message     *handler.MessageHandler
	Testimonial *handler.TestimonialHandler
	Subscriber  *handler.SubscriberHandler
	Chat        *handler.ChatHandler
}

func NewRouter(h Handlers, jwtSecret string, corsOrigins []string) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Metrics())
	r.Use(CORS(corsOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Public
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/track/:token", h.Track.Track)
	api.POST("/leads", h.Lead.Create)
	api.POST("/estimates", h.Estimate.Create)
	api.POST("/messages", h.Message.Create)
	api.GET("/testimonials", h.Testimonial.ListPublished)
	api.POST("/subscribers/unsubscribe", h.Subscriber.Unsubscribe)
	api.POST("/chat/sessions", h.Chat.CreateSession)
	api.GET("/chat/sessions/:id/messages", h.Chat.ListMessages)
	api.POST("/chat/sessions/:id/messages", h.Chat.PostMessage)

	// Admin
	admin := api.Group("/")
	admin.Use(AuthMiddleware(jwtSecret))
	{
		admin.GET("/projects", h.Project.List)
		admin.POST("/projects", h.Project.Create)
		admin.GET("/projects/:id", h.Project.Get)
		admin.PATCH("/projects/:id", h.Project.Update)
		admin.PATCH("/projects/:id/status", h.Project.UpdateStatus)
		admin.PATCH("/projects/:id/progress", h.Project.UpdateProgress)
		admin.POST("/projects/:id/regenerate-link", h.Project.RegenerateLink)
		admin.GET("/projects/:id/logs", h.Project.Logs)
		admin.GET("/projects/:id/milestones", h.Project.ListMilestones)
		admin.POST("/projects/:id/milestones", h.Project.CreateMilestone)
		admin.PATCH("/milestones/:id", h.Project.UpdateMilestoneStatus)

		admin.GET("/leads", h.Lead.List)
		admin.PATCH("/leads/:id/status", h.Lead.UpdateStatus)
		admin.GET("/estimates", h.Estimate.List)
		admin.PATCH("/estimates/:id/status", h.Estimate.UpdateStatus)
		admin.GET("/messages", h.Message.List)
		admin.POST("/messages/:id/read", h.Message.MarkRead)
		admin.POST("/testimonials", h.Testimonial.Create)

		admin.GET("/subscribers", h.Subscriber.List)
		admin.GET("/campaign-sends", h.Subscriber.ListSends)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
