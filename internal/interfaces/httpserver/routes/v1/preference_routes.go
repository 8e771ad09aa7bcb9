package v1

import (
	"github.com/gin-gonic/gin"

	"pulse-server/services/advisor-api/internal/interfaces/httpserver/handlers"
)

func registerPreferenceRoutes(router gin.IRoutes, handler *handlers.PreferenceHandler) {
	router.GET("/users/:user_identity/preferences", handler.List)
	router.POST("/users/:user_identity/preferences", handler.Add)
	router.DELETE("/users/:user_identity/preferences", handler.Remove)
}
