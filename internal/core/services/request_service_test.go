package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/adapters/persistence/repositories"
	"josenian-borrowease/internal/core/domain"

	"gorm.io/gorm"
)

func newRequestService(t *testing.T, db *gorm.DB) *RequestService {
	t.Helper()
	return NewRequestService(
		repositories.NewRequestRepository(db),
		repositories.NewItemRepository(db),
		nil)
}

func validSubmitInput(itemID string) *SubmitRequestInput {
	return &SubmitRequestInput{
		ItemID:         itemID,
		RequesterName:  "Maria Santos",
		RequesterEmail: "maria.santos@josenian.edu",
		EventDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:     time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		EventName:      "Orientation Week",
	}
}

func TestSubmitSnapshotsItem(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(t, db)
	item := seedItem(t, db, models.ItemStatusAvailable)

	request, err := svc.Submit(context.Background(), validSubmitInput(item.ID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Status != models.RequestStatusWaiting {
		t.Errorf("status = %q, want waiting", request.Status)
	}
	if request.RequestDate.IsZero() {
		t.Error("request_date not set")
	}
	if request.ItemName != item.Name || request.ItemCode != item.ProductCode {
		t.Errorf("item snapshot = %q/%q, want %q/%q",
			request.ItemName, request.ItemCode, item.Name, item.ProductCode)
	}
	if request.Department != item.Department {
		t.Errorf("department = %q, want %q", request.Department, item.Department)
	}

	// Renaming the item later must not rewrite the snapshot
	db.Model(&models.Item{}).Where("id = ?", item.ID).Update("name", "Renamed Projector")
	if got := reloadRequest(t, db, request.ID); got.ItemName != item.Name {
		t.Errorf("snapshot changed after item rename: %q", got.ItemName)
	}
}

func TestSubmitUnknownItem(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(t, db)

	if _, err := svc.Submit(context.Background(), validSubmitInput("no-such-item")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(t, db)
	item := seedItem(t, db, models.ItemStatusAvailable)
	ctx := context.Background()

	blankName := validSubmitInput(item.ID)
	blankName.RequesterName = " "
	if _, err := svc.Submit(ctx, blankName); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank requester err = %v, want ErrValidation", err)
	}

	backwards := validSubmitInput(item.ID)
	backwards.ReturnDate = backwards.EventDate.AddDate(0, 0, -1)
	if _, err := svc.Submit(ctx, backwards); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("return before event err = %v, want ErrValidation", err)
	}

	sameDay := validSubmitInput(item.ID)
	sameDay.ReturnDate = sameDay.EventDate
	if _, err := svc.Submit(ctx, sameDay); err != nil {
		t.Errorf("same-day borrow err = %v, want nil", err)
	}
}

func TestListByRequester(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(t, db)
	item := seedItem(t, db, models.ItemStatusAvailable)
	ctx := context.Background()

	mine := seedRequest(t, db, item, models.RequestStatusWaiting)
	other := seedRequest(t, db, item, models.RequestStatusWaiting)
	db.Model(&models.BorrowRequest{}).Where("id = ?", other.ID).
		Update("requester_email", "someone.else@josenian.edu")

	requests, err := svc.ListByRequester(ctx, mine.RequesterEmail)
	if err != nil {
		t.Fatalf("list by requester: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != mine.ID {
		t.Errorf("got %d requests, want just %s", len(requests), mine.ID)
	}

	if _, err := svc.ListByRequester(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank email err = %v, want ErrValidation", err)
	}
}

func TestListByStatusUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(t, db)

	if _, err := svc.ListByStatus(context.Background(), "pending"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newRequestService(t, db)
	item := seedItem(t, db, models.ItemStatusAvailable)

	older := seedRequest(t, db, item, models.RequestStatusWaiting)
	db.Model(&models.BorrowRequest{}).Where("id = ?", older.ID).
		Update("request_date", time.Now().Add(-time.Hour))
	newer := seedRequest(t, db, item, models.RequestStatusWaiting)

	requests, total, err := svc.List(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(requests) != 2 {
		t.Fatalf("total=%d len=%d, want 2/2", total, len(requests))
	}
	if requests[0].ID != newer.ID {
		t.Errorf("first request = %s, want newest %s", requests[0].ID, newer.ID)
	}
}
