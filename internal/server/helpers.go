// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"strings"

	"rdfportal/internal/identity"
	"rdfportal/internal/models"
	"rdfportal/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// bearerToken extracts the token from the Authorization header, or "" when
// absent or malformed.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// authMessage unwraps the user-facing message of an identity.AuthError;
// any other error collapses to a generic message.
func authMessage(err error) string {
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "Authorization required"
}

// currentSession returns the session stashed by AuthRequired, or nil.
func currentSession(c *fiber.Ctx) *identity.Session {
	session, _ := c.Locals("session").(*identity.Session)
	return session
}

// currentProfile loads the authenticated user's profile. Requires
// AuthRequired to have run.
func (s *Server) currentProfile(c *fiber.Ctx) (*models.Profile, error) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return nil, nil
	}
	return s.identity.LoadProfile(c.Context(), userID)
}

// optionalProfile resolves the caller's profile when a valid bearer token is
// present, without enforcing authentication. Guests come back as (nil, nil).
func (s *Server) optionalProfile(c *fiber.Ctx) (*models.Profile, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, nil
	}
	session, err := s.identity.GetSession(c.Context(), token)
	if err != nil {
		return nil, nil
	}
	return s.identity.LoadProfile(c.Context(), session.UserID)
}

// parsePage extracts page/limit query parameters.
func parsePage(c *fiber.Ctx) (int, int) {
	return repository.NormalizePage(c.QueryInt("page", 1), c.QueryInt("limit", 20))
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps AppError codes to HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		case "FORBIDDEN":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		case "CONFLICT":
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		}
	}
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(authErr.Message))
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
