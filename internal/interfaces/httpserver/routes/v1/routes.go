package v1

import (
	"github.com/gin-gonic/gin"

	"tracker-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under the /v1 prefix, behind the identity
// middleware when one is supplied.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	group := engine.Group("/v1")
	if authMiddleware != nil {
		group.Use(authMiddleware)
	}

	registerTemplateRoutes(group, r.handlers.Template)
	registerEntryRoutes(group, r.handlers.Entry)
	registerAnalysisRoutes(group, r.handlers.Analysis)
	registerSettingsRoutes(group, r.handlers.Settings)
}
