package service

import (
	"context"

	"rdfportal/internal/models"
	"rdfportal/internal/repository"
	"rdfportal/internal/validation"
)

// ProfileService covers profile self-service and admin user management.
type ProfileService struct {
	profiles repository.ProfileRepository
}

type UpdateProfileInput struct {
	UserID    string
	FullName  *string
	AvatarURL *string
}

// AdminUpdateUserInput carries the fields an administrator may change on
// another account. Nil means "leave unchanged".
type AdminUpdateUserInput struct {
	ActorID  string
	TargetID string
	Role     *models.Role
	IsActive *bool
}

func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

func (s *ProfileService) ListUsers(ctx context.Context, approvalStatus string, page, limit int) ([]models.Profile, repository.Page, error) {
	return s.profiles.List(ctx, approvalStatus, page, limit)
}

// UpdateProfile applies self-service edits. Role, email, and approval status
// are never touchable through this path.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	fields := map[string]any{}
	if in.FullName != nil {
		if err := validation.ValidateFullName(*in.FullName); err != nil {
			return nil, err
		}
		fields["full_name"] = *in.FullName
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = *in.AvatarURL
	}
	if len(fields) == 0 {
		return s.profiles.GetByID(ctx, in.UserID)
	}

	if err := s.profiles.UpdateFields(ctx, in.UserID, fields); err != nil {
		return nil, err
	}
	return s.profiles.GetByID(ctx, in.UserID)
}

// AdminUpdateUser changes another account's role or active flag. An admin
// cannot demote or deactivate their own account; the last admin locking
// themselves out is not a recoverable state.
func (s *ProfileService) AdminUpdateUser(ctx context.Context, in AdminUpdateUserInput) (*models.Profile, error) {
	if in.ActorID == in.TargetID {
		if in.Role != nil && *in.Role != models.RoleAdmin {
			return nil, models.NewForbiddenError("You cannot demote your own account")
		}
		if in.IsActive != nil && !*in.IsActive {
			return nil, models.NewForbiddenError("You cannot deactivate your own account")
		}
	}

	fields := map[string]any{}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, models.NewValidationError("Invalid role")
		}
		fields["role"] = *in.Role
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if len(fields) == 0 {
		return s.profiles.GetByID(ctx, in.TargetID)
	}

	if err := s.profiles.UpdateFields(ctx, in.TargetID, fields); err != nil {
		return nil, err
	}
	return s.profiles.GetByID(ctx, in.TargetID)
}
