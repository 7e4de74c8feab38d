package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tracker-api/internal/domain/analysis"
	"tracker-api/internal/infrastructure/auth"
	"tracker-api/internal/interfaces/httpserver/requests"
	"tracker-api/internal/interfaces/httpserver/responses"
	"tracker-api/internal/utils/platformerrors"
)

// AnalysisHandler exposes the analysis pipeline over HTTP.
type AnalysisHandler struct {
	service *analysis.Service
}

// NewAnalysisHandler wires dependencies for analysis routes.
func NewAnalysisHandler(service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Submit godoc
// @Summary      Submit an analysis query
// @Description  Runs one analysis turn against the template's entries using
// @Description  the caller's own OpenAI credential. At most one request may
// @Description  be outstanding per template; a second submit is refused with
// @Description  409 rather than queued.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "template id"
// @Param        request  body      requests.AnalysisRequest  true  "query"
// @Success      200      {object}  responses.AnalysisResultResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Failure      412      {object}  responses.ErrorResponse
// @Failure      422      {object}  responses.ErrorResponse
// @Failure      502      {object}  responses.ErrorResponse
// @Router       /v1/templates/{id}/analysis [post]
func (h *AnalysisHandler) Submit(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	var req requests.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid analysis payload", "")
		return
	}

	result, err := h.service.Submit(c.Request.Context(), userID, c.Param("id"), req.Query)
	if err != nil {
		responses.HandleError(c, err, "unable to run analysis")
		return
	}
	c.JSON(http.StatusOK, responses.NewAnalysisResultResponse(result))
}

// List godoc
// @Summary      List saved analyses
// @Description  Returns the template's saved exchanges, newest first.
// @Tags         analysis
// @Produce      json
// @Param        id   path      string  true  "template id"
// @Success      200  {array}   responses.ExchangeResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /v1/templates/{id}/analyses [get]
func (h *AnalysisHandler) List(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	exchanges, err := h.service.ListExchanges(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "unable to list analyses")
		return
	}
	c.JSON(http.StatusOK, responses.NewExchangeListResponse(exchanges))
}

// Load godoc
// @Summary      Load a saved analysis into the session
// @Description  Replaces the live session's conversation with the saved
// @Description  query/response pair, discarding any unsaved continuation.
// @Tags         analysis
// @Produce      json
// @Param        id          path      string  true  "template id"
// @Param        exchangeID  path      string  true  "analysis id"
// @Success      200         {object}  responses.SessionResponse
// @Failure      404         {object}  responses.ErrorResponse
// @Failure      409         {object}  responses.ErrorResponse
// @Router       /v1/templates/{id}/analysis/load/{exchangeID} [post]
func (h *AnalysisHandler) Load(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	sess, err := h.service.LoadExchange(c.Request.Context(), userID, c.Param("id"), c.Param("exchangeID"))
	if err != nil {
		responses.HandleError(c, err, "unable to load analysis")
		return
	}
	c.JSON(http.StatusOK, responses.NewSessionResponse(sess))
}

// Delete godoc
// @Summary      Delete a saved analysis
// @Description  Removes the persisted record only; templates and entries are
// @Description  untouched.
// @Tags         analysis
// @Param        id  path  string  true  "analysis id"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/analyses/{id} [delete]
func (h *AnalysisHandler) Delete(c *gin.Context) {
	userID, ok := auth.IdentityFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "")
		return
	}

	if err := h.service.DeleteExchange(c.Request.Context(), userID, c.Param("id")); err != nil {
		responses.HandleError(c, err, "unable to delete analysis")
		return
	}
	c.Status(http.StatusNoContent)
}
