package seed

import (
	"testing"

	"rdfportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.RegistrationRequest{},
		&models.SavedQuery{},
		&models.QueryHistory{},
	))
	return db
}

func TestFactoryCreateProfile(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, SeedOptions{SkipBcrypt: true})

	profile, err := factory.CreateProfile()
	require.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.NotEmpty(t, profile.Email)
	assert.Equal(t, models.RoleUser, profile.Role)
	assert.Equal(t, models.ApprovalApproved, profile.ApprovalStatus)
	assert.True(t, profile.IsActive)

	guest, err := factory.CreateProfile(func(p *models.Profile) {
		p.Role = models.RoleGuest
		p.ApprovalStatus = models.ApprovalPending
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, guest.Role)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestFactoryRegistrationStatusFollowsProfile(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, SeedOptions{SkipBcrypt: true})

	approved, err := factory.CreateProfile()
	require.NoError(t, err)
	request, err := factory.CreateRegistrationRequest(approved)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, request.Status)

	pending, err := factory.CreateProfile(func(p *models.Profile) {
		p.Role = models.RoleGuest
		p.ApprovalStatus = models.ApprovalPending
	})
	require.NoError(t, err)
	request, err = factory.CreateRegistrationRequest(pending)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, request.Status)
}

func TestFactoryDryRunPersistsNothing(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, SeedOptions{DryRun: true, SkipBcrypt: true})

	profile, err := factory.CreateProfile()
	require.NoError(t, err)
	_, err = factory.CreateSavedQuery(profile)
	require.NoError(t, err)

	var profiles, queries int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	require.NoError(t, db.Model(&models.SavedQuery{}).Count(&queries).Error)
	assert.Zero(t, profiles)
	assert.Zero(t, queries)
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := setupSeedTestDB(t)

	err := Seed(db, Options{
		NumUsers:      3,
		NumPending:    2,
		NumQueries:    2,
		AdminEmail:    "admin@example.com",
		AdminPassword: "Password123",
	})
	require.NoError(t, err)

	var profiles, requests, saved, history int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	require.NoError(t, db.Model(&models.RegistrationRequest{}).Count(&requests).Error)
	require.NoError(t, db.Model(&models.SavedQuery{}).Count(&saved).Error)
	require.NoError(t, db.Model(&models.QueryHistory{}).Count(&history).Error)

	assert.Equal(t, int64(6), profiles) // 3 users + 2 guests + admin
	assert.Equal(t, int64(5), requests)
	assert.Equal(t, int64(6), saved) // 3 users x 2 queries
	assert.Equal(t, int64(6), history)

	var admin models.Profile
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, models.ApprovalApproved, admin.ApprovalStatus)

	// Reseeding with clean enabled starts from scratch.
	require.NoError(t, Seed(db, Options{NumUsers: 1, ShouldClean: true}))
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}
