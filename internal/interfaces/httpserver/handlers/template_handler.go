package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/domain/template"
	"tracker-api/internal/infrastructure/auth"
	"tracker-api/internal/interfaces/httpserver/requests"
	"tracker-api/internal/interfaces/httpserver/responses"
	"tracker-api/internal/utils/platformerrors"
)

// TemplateHandler exposes the template catalog over HTTP.
type TemplateHandler struct {
	service  template.Service
	analysis *analysis.Service
}

// NewTemplateHandler wires dependencies for template routes.
func NewTemplateHandler(service template.Service, analysisService *analysis.Service) *TemplateHandler {
	return &TemplateHandler{
		service:  service,
		analysis: analysisService,
	}
}

// List godoc
// @Summary      List templates
// @Description  Returns the caller's templates, newest created first.
// @Tags         templates
// @Produce      json
// @Success      200  {array}   responses.TemplateResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /v1/templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	templates, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		responses.HandleError(c, err, "unable to list templates")
		return
	}
	c.JSON(http.StatusOK, responses.NewTemplateListResponse(templates))
}

// Get godoc
// @Summary      Fetch a template
// @Tags         templates
// @Produce      json
// @Param        id   path      string  true  "template id"
// @Success      200  {object}  responses.TemplateResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/templates/{id} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	tmpl, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "unable to fetch template")
		return
	}
	c.JSON(http.StatusOK, responses.NewTemplateResponse(tmpl))
}

// Create godoc
// @Summary      Create a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateTemplateRequest  true  "template payload"
// @Success      201      {object}  responses.TemplateResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	var req requests.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid template payload", "")
		return
	}

	tmpl, err := h.service.Create(c.Request.Context(), userID, template.CreateParams{
		Name:   req.Name,
		Goal:   req.Goal,
		Fields: requests.ToFields(req.Fields),
	})
	if err != nil {
		responses.HandleError(c, err, "unable to create template")
		return
	}
	c.JSON(http.StatusCreated, responses.NewTemplateResponse(tmpl))
}

// Update godoc
// @Summary      Update a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "template id"
// @Param        request  body      requests.UpdateTemplateRequest  true  "template patch"
// @Success      200      {object}  responses.TemplateResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/templates/{id} [patch]
func (h *TemplateHandler) Update(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	var req requests.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid template payload", "")
		return
	}

	tmpl, err := h.service.Update(c.Request.Context(), userID, c.Param("id"), template.UpdateParams{
		Name:   req.Name,
		Goal:   req.Goal,
		Fields: requests.ToFields(req.Fields),
	})
	if err != nil {
		responses.HandleError(c, err, "unable to update template")
		return
	}
	c.JSON(http.StatusOK, responses.NewTemplateResponse(tmpl))
}

// Delete godoc
// @Summary      Delete a template
// @Description  Removes the template together with its entries and saved
// @Description  analyses, and discards any live analysis session for it.
// @Tags         templates
// @Param        id  path  string  true  "template id"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	templateID := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), userID, templateID); err != nil {
		responses.HandleError(c, err, "unable to delete template")
		return
	}
	h.analysis.DropSessions(templateID)
	c.Status(http.StatusNoContent)
}
