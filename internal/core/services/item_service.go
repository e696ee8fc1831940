package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/adapters/persistence/repositories"
	"josenian-borrowease/internal/core/domain"

	"gorm.io/gorm"
)

// ItemService handles the item registry: catalog reads and creation.
// Occupancy columns (status/borrower/return date) are written only by the
// LifecycleService transaction.
type ItemService struct {
	db       *gorm.DB
	itemRepo *repositories.ItemRepository
	feed     *FeedService
}

// NewItemService creates a new item service
func NewItemService(db *gorm.DB, itemRepo *repositories.ItemRepository, feed *FeedService) *ItemService {
	return &ItemService{
		db:       db,
		itemRepo: itemRepo,
		feed:     feed,
	}
}

// CreateItemInput represents create item input
type CreateItemInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	ProductCode string `json:"product_code" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Image       string `json:"image,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Create creates a new item
func (s *ItemService) Create(ctx context.Context, input *CreateItemInput, addedBy domain.Identity) (*models.Item, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.ProductCode) == "" ||
		strings.TrimSpace(input.Department) == "" {
		return nil, fmt.Errorf("%w: name, description, product code and department are required", domain.ErrValidation)
	}
	if !domain.ValidDepartment(input.Department) {
		return nil, fmt.Errorf("%w: unknown department %q", domain.ErrValidation, input.Department)
	}

	status := input.Status
	if status == "" {
		status = models.ItemStatusAvailable
	}
	if !models.ValidItemStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	item := &models.Item{
		Name:        input.Name,
		Description: input.Description,
		ProductCode: input.ProductCode,
		Department:  input.Department,
		Image:       input.Image,
		Status:      status,
		DateAdded:   time.Now(),
		AddedBy:     addedBy.Email,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Printf("✅ Item created: %s (%s) by %s", item.Name, item.ID, addedBy.Email)

	if s.feed != nil {
		s.feed.PublishItems(ctx)
	}
	return item, nil
}

// GetByID returns an item by ID
func (s *ItemService) GetByID(ctx context.Context, id string) (*models.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// List returns a page of items, newest first
func (s *ItemService) List(ctx context.Context, offset, limit int) ([]models.Item, int64, error) {
	return s.itemRepo.List(ctx, offset, limit)
}

// ListByDepartment returns items of a department, newest first
func (s *ItemService) ListByDepartment(ctx context.Context, department string) ([]models.Item, error) {
	return s.itemRepo.ListByDepartment(ctx, department)
}

// ListByStatus returns items with a given status, newest first
func (s *ItemService) ListByStatus(ctx context.Context, status string) ([]models.Item, error) {
	if !models.ValidItemStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.itemRepo.ListByStatus(ctx, status)
}

// Search returns items matching a search term
func (s *ItemService) Search(ctx context.Context, term string) ([]models.Item, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: search term is required", domain.ErrValidation)
	}
	return s.itemRepo.Search(ctx, term)
}

// Delete removes an item. It fails with Conflict while any waiting or
// approved request still references the item; the count and the delete run
// in one transaction so a request submitted in between cannot slip through.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrNotFound
			}
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}

		outstanding, err := repositories.NewRequestRepository(tx).CountOutstandingByItem(ctx, id)
		if err != nil {
			return err
		}
		if outstanding > 0 {
			return fmt.Errorf("%w: item has %d outstanding request(s)", domain.ErrConflict, outstanding)
		}

		if err := tx.Delete(&models.Item{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("✅ Item deleted: %s", id)

	if s.feed != nil {
		s.feed.PublishItems(ctx)
	}
	return nil
}
