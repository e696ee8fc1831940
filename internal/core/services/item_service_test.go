package services

import (
	"context"
	"errors"
	"testing"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/adapters/persistence/repositories"
	"josenian-borrowease/internal/core/domain"

	"gorm.io/gorm"
)

func newItemService(t *testing.T, db *gorm.DB) *ItemService {
	t.Helper()
	return NewItemService(db, repositories.NewItemRepository(db), nil)
}

var adder = domain.Identity{UserID: "u-add", Email: "demo@josenian.edu", Department: "IT"}

func TestCreateItemDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newItemService(t, db)

	item, err := svc.Create(context.Background(), &CreateItemInput{
		Name:        "Behringer X1204USB Mixer",
		Description: "12-input analog mixer",
		ProductCode: "AUD-014",
		Department:  "Arts and Sciences",
	}, adder)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == "" {
		t.Error("id not assigned")
	}
	if item.Status != models.ItemStatusAvailable {
		t.Errorf("status = %q, want available", item.Status)
	}
	if item.DateAdded.IsZero() {
		t.Error("date_added not set")
	}
	if item.AddedBy != adder.Email {
		t.Errorf("added_by = %q, want %s", item.AddedBy, adder.Email)
	}
	if item.Borrower != nil || item.ReturnDate != nil {
		t.Error("new item must have no occupancy fields")
	}
}

func TestCreateItemValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newItemService(t, db)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateItemInput
	}{
		{"blank name", CreateItemInput{Description: "d", ProductCode: "c", Department: "IT"}},
		{"blank description", CreateItemInput{Name: "n", ProductCode: "c", Department: "IT"}},
		{"blank product code", CreateItemInput{Name: "n", Description: "d", Department: "IT"}},
		{"blank department", CreateItemInput{Name: "n", Description: "d", ProductCode: "c"}},
		{"unknown department", CreateItemInput{Name: "n", Description: "d", ProductCode: "c", Department: "Culinary"}},
		{"unknown status", CreateItemInput{Name: "n", Description: "d", ProductCode: "c", Department: "IT", Status: "lost"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tc.input, adder); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestGetItemNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newItemService(t, db)

	if _, err := svc.GetByID(context.Background(), "no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteItemWithOutstandingRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newItemService(t, db)
	ctx := context.Background()

	for _, status := range []string{models.RequestStatusWaiting, models.RequestStatusApproved} {
		item := seedItem(t, db, models.ItemStatusAvailable)
		seedRequest(t, db, item, status)

		if err := svc.Delete(ctx, item.ID); !errors.Is(err, domain.ErrConflict) {
			t.Errorf("delete with %s request err = %v, want ErrConflict", status, err)
		}
		if got := reloadItem(t, db, item.ID); got.ID != item.ID {
			t.Errorf("item %s removed despite conflict", item.ID)
		}
	}
}

func TestDeleteItemWithClosedRequests(t *testing.T) {
	db := newTestDB(t)
	svc := newItemService(t, db)
	ctx := context.Background()

	item := seedItem(t, db, models.ItemStatusAvailable)
	seedRequest(t, db, item, models.RequestStatusNotApproved)
	seedRequest(t, db, item, models.RequestStatusReturned)

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.First(&models.Item{}, "id = ?", item.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("item still present after delete: %v", err)
	}

	// Ledger entries outlive the item
	var count int64
	db.Model(&models.BorrowRequest{}).Where("item_id = ?", item.ID).Count(&count)
	if count != 2 {
		t.Errorf("request count = %d, want 2", count)
	}
}

func TestSearchItems(t *testing.T) {
	db := newTestDB(t)
	svc := newItemService(t, db)
	ctx := context.Background()

	seedItem(t, db, models.ItemStatusAvailable) // "Epson EB-X51 Projector"

	found, err := svc.Search(ctx, "projector")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("search hits = %d, want 1", len(found))
	}

	none, err := svc.Search(ctx, "telescope")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("search hits = %d, want 0", len(none))
	}

	if _, err := svc.Search(ctx, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank search err = %v, want ErrValidation", err)
	}
}

func TestListItemsByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newItemService(t, db)
	ctx := context.Background()

	seedItem(t, db, models.ItemStatusAvailable)
	seedItem(t, db, models.ItemStatusMaintenance)

	available, err := svc.ListByStatus(ctx, models.ItemStatusAvailable)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(available) != 1 {
		t.Errorf("available count = %d, want 1", len(available))
	}

	if _, err := svc.ListByStatus(ctx, "lost"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown status err = %v, want ErrValidation", err)
	}
}
