package repository

import (
	"context"
	"errors"

	"rdfportal/internal/models"
	"rdfportal/internal/observability"

	"gorm.io/gorm"
)

// Divergence is an approved registration request whose profile was never
// promoted out of the guest role. It is the detectable footprint of a write
// that failed halfway through a review.
type Divergence struct {
	RequestID      uint                  `json:"request_id"`
	UserID         string                `json:"user_id"`
	RequestStatus  models.RegistrationStatus `json:"request_status"`
	ProfileRole    models.Role           `json:"profile_role"`
	ApprovalStatus models.ApprovalStatus `json:"approval_status"`
}

// RegistrationRepository defines persistence operations for registration requests.
type RegistrationRepository interface {
	Create(ctx context.Context, req *models.RegistrationRequest) error
	GetByID(ctx context.Context, id uint) (*models.RegistrationRequest, error)
	GetPendingByUserID(ctx context.Context, userID string) (*models.RegistrationRequest, error)
	List(ctx context.Context, status string, page, limit int) ([]models.RegistrationRequest, Page, error)
	Divergences(ctx context.Context) ([]Divergence, error)
}

type registrationRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewRegistrationRepository returns a new RegistrationRepository implementation.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{
		db:  db,
		log: observability.NewRepoLogger("registration_requests"),
	}
}

func (r *registrationRepository) Create(ctx context.Context, req *models.RegistrationRequest) error {
	existing, err := r.GetPendingByUserID(ctx, req.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewConflictError("A pending registration request already exists for this user")
	}

	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogWrite(ctx, "create", map[string]interface{}{
		"request_id": req.ID,
		"user_id":    req.UserID,
	})
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id uint) (*models.RegistrationRequest, error) {
	var req models.RegistrationRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Registration request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *registrationRepository) GetPendingByUserID(ctx context.Context, userID string) (*models.RegistrationRequest, error) {
	var req models.RegistrationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.RegistrationPending).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *registrationRepository) List(ctx context.Context, status string, page, limit int) ([]models.RegistrationRequest, Page, error) {
	page, limit = NormalizePage(page, limit)

	q := r.db.WithContext(ctx).Model(&models.RegistrationRequest{})
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Page{}, models.NewInternalError(err)
	}

	var requests []models.RegistrationRequest
	// id DESC as a secondary key keeps ordering deterministic for rows
	// created in the same instant.
	if err := q.
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&requests).Error; err != nil {
		return nil, Page{}, models.NewInternalError(err)
	}

	return requests, NewPage(page, limit, total), nil
}

func (r *registrationRepository) Divergences(ctx context.Context) ([]Divergence, error) {
	var out []Divergence
	err := r.db.WithContext(ctx).
		Table("registration_requests").
		Select("registration_requests.id AS request_id, registration_requests.user_id, "+
			"registration_requests.status AS request_status, profiles.role AS profile_role, "+
			"profiles.approval_status").
		Joins("JOIN profiles ON profiles.id = registration_requests.user_id").
		Where("registration_requests.status = ? AND profiles.approval_status <> ?",
			models.RegistrationApproved, models.ApprovalApproved).
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
