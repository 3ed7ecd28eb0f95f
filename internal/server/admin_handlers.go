package server

import (
	"rdfportal/internal/models"
	"rdfportal/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListRegistrations handles GET /api/admin/registrations
// @Summary List registration requests
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter: pending, approved, rejected, all" default(pending)
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{requests=[]models.RegistrationRequest,pagination=repository.Page}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/registrations [get]
func (s *Server) ListRegistrations(c *fiber.Ctx) error {
	status := c.Query("status", string(models.RegistrationPending))
	page, limit := parsePage(c)

	requests, pagination, err := s.registrationService.ListRequests(c.Context(), status, page, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests":   requests,
		"pagination": pagination,
	})
}

// ReviewRegistration handles POST /api/admin/registrations
// @Summary Approve or reject a registration request
// @Description Reviewing a request that already reached a terminal state is a no-op and returns the stored row
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{requestId=int,approved=bool} true "Review decision"
// @Success 200 {object} object{request=models.RegistrationRequest,message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/registrations [post]
func (s *Server) ReviewRegistration(c *fiber.Ctx) error {
	var req struct {
		RequestID uint  `json:"requestId"`
		Approved  *bool `json:"approved"`
	}
	if err := c.BodyParser(&req); err != nil || req.RequestID == 0 || req.Approved == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("requestId and approved are required"))
	}

	reviewerID, _ := c.Locals("userID").(string)
	request, err := s.registrationService.Review(c.Context(), req.RequestID, *req.Approved, reviewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Registration request rejected"
	if request.Status == models.RegistrationApproved {
		message = "Registration request approved"
	}
	return c.JSON(fiber.Map{
		"request": request,
		"message": message,
	})
}

// RegistrationDivergences handles GET /api/admin/registrations/divergences
// @Summary List approved requests whose profile was never promoted
// @Description Read-only reconciliation check; a non-empty result means a review write failed halfway
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{divergences=[]repository.Divergence}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/registrations/divergences [get]
func (s *Server) RegistrationDivergences(c *fiber.Ctx) error {
	divergences, err := s.registrationService.Divergences(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"divergences": divergences})
}

// ListUsers handles GET /api/admin/users
// @Summary List user accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param approval_status query string false "Filter: pending, approved, declined, all" default(all)
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} object{users=[]models.Profile,pagination=repository.Page}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	status := c.Query("approval_status", "all")
	page, limit := parsePage(c)

	users, pagination, err := s.profileService.ListUsers(c.Context(), status, page, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

// UpdateUser handles PATCH /api/admin/users
// @Summary Change a user's role or active flag
// @Description An admin cannot demote or deactivate their own account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{user_id=string,role=string,is_active=bool} true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		UserID   string       `json:"user_id"`
		Role     *models.Role `json:"role"`
		IsActive *bool        `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	actorID, _ := c.Locals("userID").(string)
	profile, err := s.profileService.AdminUpdateUser(c.Context(), service.AdminUpdateUserInput{
		ActorID:  actorID,
		TargetID: req.UserID,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
// @Summary Show configured feature flags and their evaluation for the caller
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{flags=map[string]string,evaluated=map[string]bool}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	return c.JSON(fiber.Map{
		"flags":     s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
