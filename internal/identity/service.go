package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rdfportal/internal/cache"
	"rdfportal/internal/config"
	"rdfportal/internal/models"
	"rdfportal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "rdfportal-api"
	tokenAudience = "rdfportal-client"
)

// Service implements Provider over bcrypt passwords, signed JWT sessions,
// and Redis-backed revocation and recovery tokens.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	profiles repository.ProfileRepository
	redis    *redis.Client
}

// NewService creates the identity service.
func NewService(cfg *config.Config, db *gorm.DB, profiles repository.ProfileRepository, rdb *redis.Client) *Service {
	return &Service{cfg: cfg, db: db, profiles: profiles, redis: rdb}
}

// SignUp creates the account, its Profile (guest, pending), and its
// RegistrationRequest (pending). The three writes share one transaction so a
// failure cannot leave an orphaned account with no request record.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string, reason *string) (*models.Profile, error) {
	existing, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var name *string
	if fullName != "" {
		name = &fullName
	}

	profile := &models.Profile{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordHash:   string(hash),
		FullName:       name,
		Role:           models.RoleGuest,
		IsActive:       true,
		ApprovalStatus: models.ApprovalPending,
	}
	request := &models.RegistrationRequest{
		UserID:   profile.ID,
		Email:    email,
		FullName: name,
		Reason:   reason,
		Status:   models.RegistrationPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		return tx.Create(request).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return profile, nil
}

// SignInWithPassword authenticates and mints a session. Bad credentials and
// unknown accounts produce the same AuthError so the response does not leak
// which emails exist.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, *models.Profile, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, NewAuthError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, nil, NewAuthError("Invalid email or password")
	}
	if !profile.IsActive {
		return nil, nil, NewAuthError("This account has been deactivated")
	}

	session, err := s.mintSession(profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, profile, nil
}

// GetSession validates a bearer token and returns its session view, or an
// AuthError if the token is missing, malformed, expired, or revoked.
func (s *Service) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, NewAuthError("Authorization required")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, NewAuthError("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewAuthError("Invalid token claims")
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return nil, NewAuthError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return nil, NewAuthError("Invalid token audience")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, NewAuthError("Invalid subject claim")
	}

	session := &Session{Token: token, UserID: sub}
	if exp, expOk := claims["exp"].(float64); expOk {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if jti, jtiOk := claims["jti"].(string); jtiOk {
		session.JTI = jti
		if s.redis != nil {
			revoked, err := s.redis.Exists(ctx, cache.BlacklistKey(jti)).Result()
			if err == nil && revoked > 0 {
				return nil, NewAuthError("Token has been revoked")
			}
		}
	}
	return session, nil
}

// SignOut revokes the session's jti until the token would have expired.
func (s *Service) SignOut(ctx context.Context, session *Session) error {
	if session == nil || session.JTI == "" || s.redis == nil {
		return nil
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, cache.BlacklistKey(session.JTI), "1", ttl).Err()
}

// ResetPasswordForEmail mints a single-use recovery token with a TTL.
// Unknown emails still return success so the endpoint cannot be used to
// enumerate accounts; the returned token is empty in that case.
func (s *Service) ResetPasswordForEmail(ctx context.Context, email string) (string, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", nil
	}
	if s.redis == nil {
		return "", models.NewInternalError(fmt.Errorf("recovery token store unavailable"))
	}

	token := strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
	ttl := time.Duration(s.cfg.ResetTokenTTL) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := s.redis.Set(ctx, cache.ResetTokenKey(token), profile.ID, ttl).Err(); err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// ResetPassword consumes a live recovery token and replaces the password.
// An expired or already-used token yields an AuthError for the "invalid or
// expired link" state.
func (s *Service) ResetPassword(ctx context.Context, recoveryToken, newPassword string) error {
	if s.redis == nil {
		return models.NewInternalError(fmt.Errorf("recovery token store unavailable"))
	}

	userID, err := s.redis.GetDel(ctx, cache.ResetTokenKey(recoveryToken)).Result()
	if err == redis.Nil || userID == "" {
		return NewAuthError("This password reset link is invalid or has expired")
	}
	if err != nil {
		return models.NewInternalError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.profiles.UpdateFields(ctx, userID, map[string]any{
		"password_hash": string(hash),
	})
}

// LoadProfile loads the profile for a resolved session.
func (s *Service) LoadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

func (s *Service) mintSession(userID string) (*Session, error) {
	if s.cfg.JWTSecret == "" {
		return nil, models.NewInternalError(fmt.Errorf("JWT secret not configured"))
	}

	now := time.Now()
	ttl := time.Duration(s.cfg.SessionTTLHours) * time.Hour
	jti := fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &Session{
		Token:     signed,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		JTI:       jti,
	}, nil
}
