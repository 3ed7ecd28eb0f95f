package repository

import (
	"context"
	"errors"

	"rdfportal/internal/models"

	"gorm.io/gorm"
)

// QueryRepository defines persistence operations for saved queries and
// execution history.
type QueryRepository interface {
	SaveQuery(ctx context.Context, q *models.SavedQuery) error
	ListSaved(ctx context.Context, userID string, page, limit int) ([]models.SavedQuery, Page, error)
	DeleteSaved(ctx context.Context, userID string, id uint) error
	RecordHistory(ctx context.Context, h *models.QueryHistory) error
	ListHistory(ctx context.Context, userID string, page, limit int) ([]models.QueryHistory, Page, error)
}

type queryRepository struct {
	db *gorm.DB
}

// NewQueryRepository returns a new QueryRepository implementation.
func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{db: db}
}

func (r *queryRepository) SaveQuery(ctx context.Context, q *models.SavedQuery) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *queryRepository) ListSaved(ctx context.Context, userID string, page, limit int) ([]models.SavedQuery, Page, error) {
	page, limit = NormalizePage(page, limit)

	q := r.db.WithContext(ctx).Model(&models.SavedQuery{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Page{}, models.NewInternalError(err)
	}

	var queries []models.SavedQuery
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&queries).Error; err != nil {
		return nil, Page{}, models.NewInternalError(err)
	}

	return queries, NewPage(page, limit, total), nil
}

func (r *queryRepository) DeleteSaved(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SavedQuery{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Saved query", id)
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Saved query", id)
	}
	return nil
}

func (r *queryRepository) RecordHistory(ctx context.Context, h *models.QueryHistory) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *queryRepository) ListHistory(ctx context.Context, userID string, page, limit int) ([]models.QueryHistory, Page, error) {
	page, limit = NormalizePage(page, limit)

	q := r.db.WithContext(ctx).Model(&models.QueryHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Page{}, models.NewInternalError(err)
	}

	var history []models.QueryHistory
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&history).Error; err != nil {
		return nil, Page{}, models.NewInternalError(err)
	}

	return history, NewPage(page, limit, total), nil
}
