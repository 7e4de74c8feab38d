package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker-api/internal/domain/usersettings"
	"tracker-api/internal/infrastructure/auth"
	"tracker-api/internal/interfaces/httpserver/requests"
	"tracker-api/internal/interfaces/httpserver/responses"
	"tracker-api/internal/utils/platformerrors"
)

// SettingsHandler exposes the per-user settings row over HTTP.
type SettingsHandler struct {
	service usersettings.Service
}

// NewSettingsHandler wires dependencies for settings routes.
func NewSettingsHandler(service usersettings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get godoc
// @Summary      Fetch user settings
// @Description  Returns the caller's settings, creating the row with the
// @Description  default model on first access.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  responses.UserSettingsResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	settings, err := h.service.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "unable to fetch settings")
		return
	}
	c.JSON(http.StatusOK, responses.NewUserSettingsResponse(settings))
}

// Update godoc
// @Summary      Update user settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      requests.UpdateUserSettingsRequest  true  "settings patch"
// @Success      200      {object}  responses.UserSettingsResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	var req requests.UpdateUserSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid settings payload", "")
		return
	}

	settings, err := h.service.Update(c.Request.Context(), userID, usersettings.UpdateParams{
		OpenAIAPIKey: req.OpenAIAPIKey,
		OpenAIModel:  req.OpenAIModel,
	})
	if err != nil {
		responses.HandleError(c, err, "unable to update settings")
		return
	}
	c.JSON(http.StatusOK, responses.NewUserSettingsResponse(settings))
}
