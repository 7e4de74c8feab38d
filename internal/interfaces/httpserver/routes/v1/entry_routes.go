package v1

import (
	"github.com/gin-gonic/gin"

	"tracker-api/internal/interfaces/httpserver/handlers"
)

func registerEntryRoutes(router gin.IRoutes, handler *handlers.EntryHandler) {
	router.GET("/templates/:id/entries", handler.ListByTemplate)
	router.POST("/templates/:id/entries", handler.Create)
	router.PATCH("/entries/:id", handler.Update)
	router.DELETE("/entries/:id", handler.Delete)
}
