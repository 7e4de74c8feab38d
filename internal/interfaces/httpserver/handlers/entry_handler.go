package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker-api/internal/domain/entry"
	"tracker-api/internal/infrastructure/auth"
	"tracker-api/internal/interfaces/httpserver/requests"
	"tracker-api/internal/interfaces/httpserver/responses"
	"tracker-api/internal/utils/platformerrors"
)

// EntryHandler exposes the entry store over HTTP.
type EntryHandler struct {
	service entry.Service
}

// NewEntryHandler wires dependencies for entry routes.
func NewEntryHandler(service entry.Service) *EntryHandler {
	return &EntryHandler{service: service}
}

// ListByTemplate godoc
// @Summary      List entries for a template
// @Description  Returns the template's entries ordered by date descending.
// @Tags         entries
// @Produce      json
// @Param        id   path      string  true  "template id"
// @Success      200  {array}   responses.EntryResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /v1/templates/{id}/entries [get]
func (h *EntryHandler) ListByTemplate(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	entries, err := h.service.ListByTemplate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "unable to list entries")
		return
	}
	c.JSON(http.StatusOK, responses.NewEntryListResponse(entries))
}

// Create godoc
// @Summary      Record an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "template id"
// @Param        request  body      requests.CreateEntryRequest  true  "entry payload"
// @Success      201      {object}  responses.EntryResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/templates/{id}/entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	var req requests.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid entry payload", "")
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, entry.CreateParams{
		TemplateID: c.Param("id"),
		Date:       req.Date,
		Values:     req.Values,
	})
	if err != nil {
		responses.HandleError(c, err, "unable to create entry")
		return
	}
	c.JSON(http.StatusCreated, responses.NewEntryResponse(created))
}

// Update godoc
// @Summary      Update an entry
// @Description  Patches the entry. A present values map replaces the stored
// @Description  values wholesale and is revalidated against the template.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "entry id"
// @Param        request  body      requests.UpdateEntryRequest  true  "entry patch"
// @Success      200      {object}  responses.EntryResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /v1/entries/{id} [patch]
func (h *EntryHandler) Update(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	var req requests.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid entry payload", "")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), userID, c.Param("id"), entry.UpdateParams{
		Date:   req.Date,
		Values: req.Values,
	})
	if err != nil {
		responses.HandleError(c, err, "unable to update entry")
		return
	}
	c.JSON(http.StatusOK, responses.NewEntryResponse(updated))
}

// Delete godoc
// @Summary      Delete an entry
// @Tags         entries
// @Param        id  path  string  true  "entry id"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/entries/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		responses.HandleError(c, err, "unable to delete entry")
		return
	}
	c.Status(http.StatusNoContent)
}
