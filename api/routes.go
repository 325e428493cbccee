package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hasandi22/Final-year-research---Data-Collection/middleware"
)

// RegisterRoutes mounts the survey API under /api.
func RegisterRoutes(r *gin.Engine, h *APIHandler, synthPerMinute int) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", h.HealthHandler)
		apiGroup.GET("/steps", h.StepsHandler)
		apiGroup.GET("/steps/:step/form", h.FormHandler)
		apiGroup.POST("/session", h.StartSessionHandler)
		apiGroup.GET("/voices", h.ListVoicesHandler)

		sessionGroup := apiGroup.Group("", middleware.SessionAuth(h.tokens))
		{
			sessionGroup.GET("/session", h.GetSessionHandler)
			sessionGroup.POST("/session/actions", h.ActionHandler)
			sessionGroup.GET("/session/review.pdf", h.ReviewPDFHandler)
			sessionGroup.POST("/session/submit", h.SubmitHandler)
			sessionGroup.POST("/voices/synthesize", middleware.RateLimit(synthPerMinute), h.SynthesizeHandler)
		}
	}
}
