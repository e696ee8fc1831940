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
)

// RequestService handles the request ledger: submission and reads.
// Lifecycle transitions (approve/reject/return/cancel) live in
// LifecycleService; requests are never deleted.
type RequestService struct {
	requestRepo *repositories.RequestRepository
	itemRepo    *repositories.ItemRepository
	feed        *FeedService
}

// NewRequestService creates a new request service
func NewRequestService(requestRepo *repositories.RequestRepository, itemRepo *repositories.ItemRepository, feed *FeedService) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		feed:        feed,
	}
}

// SubmitRequestInput represents submit request input
type SubmitRequestInput struct {
	ItemID             string    `json:"item_id" validate:"required"`
	RequesterName      string    `json:"requester_name" validate:"required"`
	RequesterEmail     string    `json:"requester_email" validate:"required"`
	RequesterStudentID string    `json:"requester_student_id,omitempty"`
	EventDate          time.Time `json:"event_date" validate:"required"`
	ReturnDate         time.Time `json:"return_date" validate:"required"`
	EventName          string    `json:"event_name,omitempty"`
	Reason             string    `json:"reason,omitempty"`
}

// Submit creates a new borrow request in waiting status. The item's
// name/image/code are copied onto the request as a snapshot of what was
// requested and never refreshed afterwards.
func (s *RequestService) Submit(ctx context.Context, input *SubmitRequestInput) (*models.BorrowRequest, error) {
	if strings.TrimSpace(input.ItemID) == "" ||
		strings.TrimSpace(input.RequesterName) == "" ||
		strings.TrimSpace(input.RequesterEmail) == "" {
		return nil, fmt.Errorf("%w: item id, requester name and requester email are required", domain.ErrValidation)
	}
	if input.EventDate.IsZero() || input.ReturnDate.IsZero() {
		return nil, fmt.Errorf("%w: event date and return date are required", domain.ErrValidation)
	}
	if input.ReturnDate.Before(input.EventDate) {
		return nil, fmt.Errorf("%w: return date must not be before event date", domain.ErrValidation)
	}

	// The referenced item must exist at creation time
	item, err := s.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	request := &models.BorrowRequest{
		ItemID:             item.ID,
		ItemName:           item.Name,
		ItemImage:          item.Image,
		ItemCode:           item.ProductCode,
		RequesterName:      input.RequesterName,
		RequesterEmail:     input.RequesterEmail,
		RequesterStudentID: input.RequesterStudentID,
		RequestDate:        time.Now(),
		EventDate:          input.EventDate,
		ReturnDate:         input.ReturnDate,
		EventName:          input.EventName,
		Reason:             input.Reason,
		Department:         item.Department,
		Status:             models.RequestStatusWaiting,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Printf("✅ Borrow request submitted: %s for item %s by %s", request.ID, item.ID, input.RequesterEmail)

	if s.feed != nil {
		s.feed.PublishRequests(ctx)
	}
	return request, nil
}

// GetByID returns a request by ID
func (s *RequestService) GetByID(ctx context.Context, id string) (*models.BorrowRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

// List returns a page of requests, newest first
func (s *RequestService) List(ctx context.Context, offset, limit int) ([]models.BorrowRequest, int64, error) {
	return s.requestRepo.List(ctx, offset, limit)
}

// ListByStatus returns requests with a given status, newest first
func (s *RequestService) ListByStatus(ctx context.Context, status string) ([]models.BorrowRequest, error) {
	if !models.ValidRequestStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.requestRepo.ListByStatus(ctx, status)
}

// ListByRequester returns a requester's requests, newest first
func (s *RequestService) ListByRequester(ctx context.Context, email string) ([]models.BorrowRequest, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: requester email is required", domain.ErrValidation)
	}
	return s.requestRepo.ListByRequester(ctx, email)
}
