package server

import (
	"rdfportal/internal/models"
	"rdfportal/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ExecuteQuery handles GET /api/rdf
// @Summary Execute a SPARQL query
// @Description Guests receive a fixed demo payload; approved users get the full result set and an entry in their history
// @Tags rdf
// @Produce json
// @Security BearerAuth
// @Param query query string false "SPARQL query text"
// @Success 200 {object} service.ExecuteResult
// @Router /rdf [get]
func (s *Server) ExecuteQuery(c *fiber.Ctx) error {
	actor, err := s.optionalProfile(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	result, err := s.queryService.Execute(c.Context(), actor, c.Query("query"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// ExecuteAndSaveQuery handles POST /api/rdf
// @Summary Execute a SPARQL query and optionally save it
// @Tags rdf
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{query=string,save_query=bool,title=string,description=string} true "Query and optional save fields"
// @Success 200 {object} service.ExecuteResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /rdf [post]
func (s *Server) ExecuteAndSaveQuery(c *fiber.Ctx) error {
	var req struct {
		Query       string  `json:"query"`
		SaveQuery   bool    `json:"save_query"`
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	actor, err := s.currentProfile(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	result, err := s.queryService.Execute(c.Context(), actor, req.Query)
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.SaveQuery {
		if _, err := s.queryService.SaveQuery(c.Context(), actor, service.SaveQueryInput{
			UserID:      actor.ID,
			Title:       req.Title,
			Description: req.Description,
			SPARQL:      req.Query,
		}); err != nil {
			return respondServiceError(c, err)
		}
	}

	return c.JSON(result)
}

// ListSavedQueries handles GET /api/queries
// @Summary List the authenticated user's saved queries
// @Tags rdf
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{queries=[]models.SavedQuery,pagination=repository.Page}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /queries [get]
func (s *Server) ListSavedQueries(c *fiber.Ctx) error {
	actor, err := s.currentProfile(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, limit := parsePage(c)
	queries, pagination, err := s.queryService.ListSaved(c.Context(), actor, page, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"queries":    queries,
		"pagination": pagination,
	})
}

// DeleteSavedQuery handles DELETE /api/queries/:id
// @Summary Delete one of the authenticated user's saved queries
// @Tags rdf
// @Produce json
// @Security BearerAuth
// @Param id path int true "Saved query ID"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /queries/{id} [delete]
func (s *Server) DeleteSavedQuery(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor, err := s.currentProfile(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.queryService.DeleteSaved(c.Context(), actor, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Saved query deleted"})
}

// QueryHistory handles GET /api/queries/history
// @Summary List the authenticated user's query execution history
// @Tags rdf
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{history=[]models.QueryHistory,pagination=repository.Page}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /queries/history [get]
func (s *Server) QueryHistory(c *fiber.Ctx) error {
	actor, err := s.currentProfile(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, limit := parsePage(c)
	history, pagination, err := s.queryService.History(c.Context(), actor, page, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"history":    history,
		"pagination": pagination,
	})
}
