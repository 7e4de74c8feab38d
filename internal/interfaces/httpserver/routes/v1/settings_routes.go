package v1

import (
	"github.com/gin-gonic/gin"

	"tracker-api/internal/interfaces/httpserver/handlers"
)

func registerSettingsRoutes(router gin.IRoutes, handler *handlers.SettingsHandler) {
	router.GET("/settings", handler.Get)
	router.PUT("/settings", handler.Update)
}
