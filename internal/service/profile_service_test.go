package service

import (
	"context"
	"testing"

	"rdfportal/internal/models"
	"rdfportal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func approveUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.Profile {
	t.Helper()
	profile, req := signUpTestUser(t, db, email)
	svc := newRegistrationService(db)
	_, err := svc.Approve(context.Background(), req.ID, "admin-id")
	require.NoError(t, err)
	if role == models.RoleAdmin {
		require.NoError(t, db.Model(&models.Profile{}).
			Where("id = ?", profile.ID).Update("role", models.RoleAdmin).Error)
	}
	var out models.Profile
	require.NoError(t, db.First(&out, "id = ?", profile.ID).Error)
	return &out
}

func TestUpdateProfileEditsOnlyAllowedFields(t *testing.T) {
	db := setupServiceTestDB(t)
	user := approveUser(t, db, "frank@example.com", models.RoleUser)
	svc := NewProfileService(repository.NewProfileRepository(db))

	name := "Frank Ocean"
	avatar := "https://example.com/avatar.png"
	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:    user.ID,
		FullName:  &name,
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, name, *updated.FullName)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)
	// Role and approval status are untouched by self-service edits.
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, models.ApprovalApproved, updated.ApprovalStatus)
}

func TestAdminUpdateUserChangesRoleAndActive(t *testing.T) {
	db := setupServiceTestDB(t)
	admin := approveUser(t, db, "root@example.com", models.RoleAdmin)
	target := approveUser(t, db, "grace@example.com", models.RoleUser)
	svc := NewProfileService(repository.NewProfileRepository(db))

	role := models.RoleAdmin
	inactive := false
	updated, err := svc.AdminUpdateUser(context.Background(), AdminUpdateUserInput{
		ActorID:  admin.ID,
		TargetID: target.ID,
		Role:     &role,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.False(t, updated.IsActive)
}

func TestAdminCannotDemoteOrDeactivateSelf(t *testing.T) {
	db := setupServiceTestDB(t)
	admin := approveUser(t, db, "selfharm@example.com", models.RoleAdmin)
	svc := NewProfileService(repository.NewProfileRepository(db))
	ctx := context.Background()

	role := models.RoleUser
	_, err := svc.AdminUpdateUser(ctx, AdminUpdateUserInput{
		ActorID:  admin.ID,
		TargetID: admin.ID,
		Role:     &role,
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	inactive := false
	_, err = svc.AdminUpdateUser(ctx, AdminUpdateUserInput{
		ActorID:  admin.ID,
		TargetID: admin.ID,
		IsActive: &inactive,
	})
	require.Error(t, err)

	// Keeping their own admin role explicitly is fine.
	keep := models.RoleAdmin
	updated, err := svc.AdminUpdateUser(ctx, AdminUpdateUserInput{
		ActorID:  admin.ID,
		TargetID: admin.ID,
		Role:     &keep,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestAdminUpdateUserRejectsUnknownRole(t *testing.T) {
	db := setupServiceTestDB(t)
	admin := approveUser(t, db, "root2@example.com", models.RoleAdmin)
	target := approveUser(t, db, "henry@example.com", models.RoleUser)
	svc := NewProfileService(repository.NewProfileRepository(db))

	bogus := models.Role("superuser")
	_, err := svc.AdminUpdateUser(context.Background(), AdminUpdateUserInput{
		ActorID:  admin.ID,
		TargetID: target.ID,
		Role:     &bogus,
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
