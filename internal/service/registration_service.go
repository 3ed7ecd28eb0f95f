package service

import (
	"context"

	"rdfportal/internal/cache"
	"rdfportal/internal/middleware"
	"rdfportal/internal/models"
	"rdfportal/internal/repository"

	"gorm.io/gorm"
)

// RegistrationService owns the review lifecycle of registration requests:
// pending requests are approved or rejected exactly once, and the reviewed
// profile moves in the same transaction as the request row.
type RegistrationService struct {
	db       *gorm.DB
	requests repository.RegistrationRepository
	profiles repository.ProfileRepository
}

func NewRegistrationService(db *gorm.DB, requests repository.RegistrationRepository, profiles repository.ProfileRepository) *RegistrationService {
	return &RegistrationService{db: db, requests: requests, profiles: profiles}
}

// ListRequests returns registration requests filtered by status ("pending",
// "approved", "rejected", or "all").
func (s *RegistrationService) ListRequests(ctx context.Context, status string, page, limit int) ([]models.RegistrationRequest, repository.Page, error) {
	return s.requests.List(ctx, status, page, limit)
}

// Review approves or rejects a pending request. The request row and the
// profile promotion are written in one transaction, so a request can never be
// marked approved while its profile stays a guest. Reviewing a request that
// already reached a terminal state is a no-op that returns the stored row
// unchanged, which makes a double-click on the approve button harmless.
func (s *RegistrationService) Review(ctx context.Context, requestID uint, approve bool, reviewerID string) (*models.RegistrationRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return req, nil
	}

	newStatus := models.RegistrationRejected
	profileRole := models.RoleGuest
	approvalStatus := models.ApprovalDeclined
	outcome := "rejected"
	if approve {
		newStatus = models.RegistrationApproved
		profileRole = models.RoleUser
		approvalStatus = models.ApprovalApproved
		outcome = "approved"
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded update: only the row still in the pending state moves. A
		// concurrent reviewer loses the race cleanly instead of overwriting.
		res := tx.Model(&models.RegistrationRequest{}).
			Where("id = ? AND status = ?", requestID, models.RegistrationPending).
			Updates(map[string]any{
				"status":      newStatus,
				"reviewed_by": reviewerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another reviewer got here first; leave everything alone.
			return nil
		}

		return tx.Model(&models.Profile{}).
			Where("id = ?", req.UserID).
			Updates(map[string]any{
				"role":            profileRole,
				"approval_status": approvalStatus,
			}).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateProfile(ctx, req.UserID)
	middleware.RegistrationReviews.WithLabelValues(outcome).Inc()

	return s.requests.GetByID(ctx, requestID)
}

// Approve marks a pending request approved and promotes its profile.
func (s *RegistrationService) Approve(ctx context.Context, requestID uint, reviewerID string) (*models.RegistrationRequest, error) {
	return s.Review(ctx, requestID, true, reviewerID)
}

// Reject marks a pending request rejected; the profile stays a guest with
// approval_status=declined.
func (s *RegistrationService) Reject(ctx context.Context, requestID uint, reviewerID string) (*models.RegistrationRequest, error) {
	return s.Review(ctx, requestID, false, reviewerID)
}

// Divergences lists approved requests whose profiles were never promoted.
// With reviews running transactionally this should always be empty; a
// non-empty result points at rows written before the transactional path
// existed, or manual edits.
func (s *RegistrationService) Divergences(ctx context.Context) ([]repository.Divergence, error) {
	return s.requests.Divergences(ctx)
}
