package repositories

import (
	"context"

	"josenian-borrowease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ItemRepository handles item-related database operations
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	return wrapErr(r.db.WithContext(ctx).Create(item).Error)
}

// GetByID returns an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &item, nil
}

// List returns a page of items, newest first
func (r *ItemRepository) List(ctx context.Context, offset, limit int) ([]models.Item, int64, error) {
	var items []models.Item
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Item{}).Count(&total).Error; err != nil {
		return nil, 0, wrapErr(err)
	}

	err := r.db.WithContext(ctx).
		Order("date_added DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, wrapErr(err)
}

// ListAll returns every item, newest first (used for feed snapshots)
func (r *ItemRepository) ListAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Order("date_added DESC").Find(&items).Error
	return items, wrapErr(err)
}

// ListByDepartment returns items of a department, newest first
func (r *ItemRepository) ListByDepartment(ctx context.Context, department string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("date_added DESC").
		Find(&items).Error
	return items, wrapErr(err)
}

// ListByStatus returns items with a given status, newest first
func (r *ItemRepository) ListByStatus(ctx context.Context, status string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("date_added DESC").
		Find(&items).Error
	return items, wrapErr(err)
}

// Search returns items whose name, description or product code contains the
// term, newest first
func (r *ItemRepository) Search(ctx context.Context, term string) ([]models.Item, error) {
	var items []models.Item
	like := "%" + term + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR description LIKE ? OR product_code LIKE ?", like, like, like).
		Order("date_added DESC").
		Find(&items).Error
	return items, wrapErr(err)
}

// CountByStatus returns item counts grouped by status
func (r *ItemRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, wrapErr(err)
	}

	counts := make(map[string]int64, len(models.ItemStatuses))
	for _, s := range models.ItemStatuses {
		counts[s] = 0
	}
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}
