package server

import (
	"rdfportal/internal/models"
	"rdfportal/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile
// @Summary Get the authenticated user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	profile, err := s.profileService.GetProfile(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles PUT /api/profile
// @Summary Update the authenticated user's profile
// @Description Only full_name and avatar_url are editable; role and email are not
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{full_name=string,avatar_url=string} true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req struct {
		FullName  *string `json:"full_name"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    userID,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}
