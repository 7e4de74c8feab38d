package v1

import (
	"github.com/gin-gonic/gin"

	"tracker-api/internal/interfaces/httpserver/handlers"
)

func registerAnalysisRoutes(router gin.IRoutes, handler *handlers.AnalysisHandler) {
	router.POST("/templates/:id/analysis", handler.Submit)
	router.GET("/templates/:id/analyses", handler.List)
	router.POST("/templates/:id/analysis/load/:exchangeID", handler.Load)
	router.DELETE("/analyses/:id", handler.Delete)
}
