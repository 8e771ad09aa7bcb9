package v1

import (
	"github.com/gin-gonic/gin"

	"pulse-server/services/advisor-api/internal/interfaces/httpserver/handlers"
)

func registerAdvisorRoutes(router gin.IRoutes, handler *handlers.AdvisorHandler) {
	router.POST("/advisor/query", handler.Query)
}

func registerInteractionRoutes(router gin.IRoutes, handler *handlers.InteractionHandler) {
	router.GET("/interactions/:log_id", handler.Get)
	router.POST("/interactions/:log_id/feedback", handler.AttachFeedback)
}
