package repositories

import (
	"context"

	"josenian-borrowease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// RequestRepository handles borrow-request database operations.
// Status mutations do not live here — they go through the lifecycle
// coordinator's transaction so the item and request change together.
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create creates a new borrow request
func (r *RequestRepository) Create(ctx context.Context, request *models.BorrowRequest) error {
	return wrapErr(r.db.WithContext(ctx).Create(request).Error)
}

// GetByID returns a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.BorrowRequest, error) {
	var request models.BorrowRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &request, nil
}

// List returns a page of requests, newest first
func (r *RequestRepository) List(ctx context.Context, offset, limit int) ([]models.BorrowRequest, int64, error) {
	var requests []models.BorrowRequest
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.BorrowRequest{}).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err)
	}

	err := r.db.WithContext(ctx).
		Order("request_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	return requests, total, wrapErr(err)
}

// ListAll returns every request, newest first (used for feed snapshots)
func (r *RequestRepository) ListAll(ctx context.Context) ([]models.BorrowRequest, error) {
	var requests []models.BorrowRequest
	err := r.db.WithContext(ctx).Order("request_date DESC").Find(&requests).Error
	return requests, wrapErr(err)
}

// ListByStatus returns requests with a given status, newest first
func (r *RequestRepository) ListByStatus(ctx context.Context, status string) ([]models.BorrowRequest, error) {
	var requests []models.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("request_date DESC").
		Find(&requests).Error
	return requests, wrapErr(err)
}

// ListByRequester returns a requester's requests, newest first
func (r *RequestRepository) ListByRequester(ctx context.Context, email string) ([]models.BorrowRequest, error) {
	var requests []models.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("requester_email = ?", email).
		Order("request_date DESC").
		Find(&requests).Error
	return requests, wrapErr(err)
}

// CountOutstandingByItem counts waiting or approved requests against an item.
// Backs the item delete guard.
func (r *RequestRepository) CountOutstandingByItem(ctx context.Context, itemID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BorrowRequest{}).
		Where("item_id = ? AND status IN ?", itemID,
			[]string{models.RequestStatusWaiting, models.RequestStatusApproved}).
		Count(&count).Error
	return count, wrapErr(err)
}

// CountByStatus returns request counts grouped by status
func (r *RequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.BorrowRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, wrapErr(err)
	}

	counts := make(map[string]int64, len(models.RequestStatuses))
	for _, s := range models.RequestStatuses {
		counts[s] = 0
	}
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}
