package service

import (
	"context"
	"testing"

	"rdfportal/internal/config"
	"rdfportal/internal/identity"
	"rdfportal/internal/models"
	"rdfportal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.RegistrationRequest{},
		&models.SavedQuery{},
		&models.QueryHistory{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestIdentity(db *gorm.DB) *identity.Service {
	cfg := &config.Config{JWTSecret: "test_secret", SessionTTLHours: 1, ResetTokenTTL: 60}
	return identity.NewService(cfg, db, repository.NewProfileRepository(db), nil)
}

// signUpTestUser registers an account and returns the profile plus its
// pending registration request.
func signUpTestUser(t *testing.T, db *gorm.DB, email string) (*models.Profile, *models.RegistrationRequest) {
	t.Helper()
	ctx := context.Background()

	profile, err := newTestIdentity(db).SignUp(ctx, email, "Password123", "Test User", nil)
	require.NoError(t, err)

	req, err := repository.NewRegistrationRepository(db).GetPendingByUserID(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, req)
	return profile, req
}

func newRegistrationService(db *gorm.DB) *RegistrationService {
	return NewRegistrationService(db,
		repository.NewRegistrationRepository(db),
		repository.NewProfileRepository(db))
}

func TestSignUpCreatesGuestProfileAndPendingRequest(t *testing.T) {
	db := setupServiceTestDB(t)
	profile, req := signUpTestUser(t, db, "alice@example.com")

	assert.Equal(t, models.RoleGuest, profile.Role)
	assert.Equal(t, models.ApprovalPending, profile.ApprovalStatus)
	assert.True(t, profile.IsActive)
	assert.Equal(t, models.RegistrationPending, req.Status)
	assert.Equal(t, profile.ID, req.UserID)
	assert.Equal(t, profile.Email, req.Email)
}

func TestApprovePromotesProfileInSameTransaction(t *testing.T) {
	db := setupServiceTestDB(t)
	profile, req := signUpTestUser(t, db, "bob@example.com")
	svc := newRegistrationService(db)

	reviewed, err := svc.Approve(context.Background(), req.ID, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "admin-id", *reviewed.ReviewedBy)

	var updated models.Profile
	require.NoError(t, db.First(&updated, "id = ?", profile.ID).Error)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, models.ApprovalApproved, updated.ApprovalStatus)
}

func TestRejectLeavesRoleGuest(t *testing.T) {
	db := setupServiceTestDB(t)
	profile, req := signUpTestUser(t, db, "carol@example.com")
	svc := newRegistrationService(db)

	reviewed, err := svc.Reject(context.Background(), req.ID, "admin-id")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationRejected, reviewed.Status)

	var updated models.Profile
	require.NoError(t, db.First(&updated, "id = ?", profile.ID).Error)
	assert.Equal(t, models.RoleGuest, updated.Role)
	assert.Equal(t, models.ApprovalDeclined, updated.ApprovalStatus)
}

func TestReviewIsIdempotentOnTerminalRequests(t *testing.T) {
	db := setupServiceTestDB(t)
	profile, req := signUpTestUser(t, db, "dave@example.com")
	svc := newRegistrationService(db)
	ctx := context.Background()

	_, err := svc.Approve(ctx, req.ID, "admin-id")
	require.NoError(t, err)

	// A second approve, and even a late reject, must not change anything.
	again, err := svc.Approve(ctx, req.ID, "other-admin")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, again.Status)
	assert.Equal(t, "admin-id", *again.ReviewedBy)

	late, err := svc.Reject(ctx, req.ID, "other-admin")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, late.Status)

	var updated models.Profile
	require.NoError(t, db.First(&updated, "id = ?", profile.ID).Error)
	assert.Equal(t, models.RoleUser, updated.Role)
	assert.Equal(t, models.ApprovalApproved, updated.ApprovalStatus)
}

func TestReviewUnknownRequest(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newRegistrationService(db)

	_, err := svc.Approve(context.Background(), 9999, "admin-id")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDivergencesEmptyAfterTransactionalReviews(t *testing.T) {
	db := setupServiceTestDB(t)
	_, req := signUpTestUser(t, db, "erin@example.com")
	svc := newRegistrationService(db)
	ctx := context.Background()

	_, err := svc.Approve(ctx, req.ID, "admin-id")
	require.NoError(t, err)

	divergences, err := svc.Divergences(ctx)
	require.NoError(t, err)
	assert.Empty(t, divergences)
}
