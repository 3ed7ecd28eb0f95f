package identity

import (
	"context"
	"testing"
	"time"

	"rdfportal/internal/config"
	"rdfportal/internal/models"
	"rdfportal/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupIdentityTest(t *testing.T) (*Service, *gorm.DB, *redis.Client) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}, &models.RegistrationRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTSecret:       "test_secret_test_secret_test_secret",
		SessionTTLHours: 1,
		ResetTokenTTL:   60,
	}
	svc := NewService(cfg, db, repository.NewProfileRepository(db), rdb)
	return svc, db, rdb
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, db, _ := setupIdentityTest(t)
	ctx := context.Background()

	profile, err := svc.SignUp(ctx, "alice@example.com", "Password123", "Alice", nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, profile.Role)
	assert.Equal(t, models.ApprovalPending, profile.ApprovalStatus)
	assert.NotEqual(t, "Password123", profile.PasswordHash)

	// The registration request was written in the same transaction.
	var count int64
	require.NoError(t, db.Model(&models.RegistrationRequest{}).
		Where("user_id = ? AND status = ?", profile.ID, models.RegistrationPending).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	session, signedIn, err := svc.SignInWithPassword(ctx, "alice@example.com", "Password123")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, signedIn.ID)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.JTI)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := setupIdentityTest(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "bob@example.com", "Password123", "", nil)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "bob@example.com", "Password456", "", nil)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestSignInWrongCredentials(t *testing.T) {
	svc, _, _ := setupIdentityTest(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "carol@example.com", "Password123", "", nil)
	require.NoError(t, err)

	// Unknown email and wrong password produce the same message.
	_, _, errUnknown := svc.SignInWithPassword(ctx, "nobody@example.com", "Password123")
	_, _, errWrong := svc.SignInWithPassword(ctx, "carol@example.com", "nope")
	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestSignInDeactivatedAccount(t *testing.T) {
	svc, db, _ := setupIdentityTest(t)
	ctx := context.Background()

	profile, err := svc.SignUp(ctx, "dave@example.com", "Password123", "", nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Profile{}).
		Where("id = ?", profile.ID).Update("is_active", false).Error)

	_, _, err = svc.SignInWithPassword(ctx, "dave@example.com", "Password123")
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestGetSessionRoundTrip(t *testing.T) {
	svc, _, _ := setupIdentityTest(t)
	ctx := context.Background()

	profile, err := svc.SignUp(ctx, "erin@example.com", "Password123", "", nil)
	require.NoError(t, err)
	session, _, err := svc.SignInWithPassword(ctx, "erin@example.com", "Password123")
	require.NoError(t, err)

	parsed, err := svc.GetSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, parsed.UserID)
	assert.Equal(t, session.JTI, parsed.JTI)

	_, err = svc.GetSession(ctx, "")
	require.Error(t, err)
	_, err = svc.GetSession(ctx, "not.a.token")
	require.Error(t, err)
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, _, _ := setupIdentityTest(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "frank@example.com", "Password123", "", nil)
	require.NoError(t, err)
	session, _, err := svc.SignInWithPassword(ctx, "frank@example.com", "Password123")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, session))

	_, err = svc.GetSession(ctx, session.Token)
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "revoked")
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := setupIdentityTest(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "grace@example.com", "Password123", "", nil)
	require.NoError(t, err)

	token, err := svc.ResetPasswordForEmail(ctx, "grace@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "NewPassword456"))

	// Old password no longer works; the new one does.
	_, _, err = svc.SignInWithPassword(ctx, "grace@example.com", "Password123")
	require.Error(t, err)
	_, _, err = svc.SignInWithPassword(ctx, "grace@example.com", "NewPassword456")
	require.NoError(t, err)

	// The token is single-use.
	err = svc.ResetPassword(ctx, token, "AnotherPass789")
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestPasswordResetUnknownEmailDoesNotLeak(t *testing.T) {
	svc, _, _ := setupIdentityTest(t)

	token, err := svc.ResetPasswordForEmail(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}
