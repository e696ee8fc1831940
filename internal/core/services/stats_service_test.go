package services

import (
	"context"
	"testing"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/adapters/persistence/repositories"
)

func TestSummaryCountsByStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(
		repositories.NewItemRepository(db),
		repositories.NewRequestRepository(db))

	item := seedItem(t, db, models.ItemStatusAvailable)
	seedItem(t, db, models.ItemStatusAvailable)
	seedItem(t, db, models.ItemStatusMaintenance)
	seedRequest(t, db, item, models.RequestStatusWaiting)
	seedRequest(t, db, item, models.RequestStatusReturned)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if got := summary.Items[models.ItemStatusAvailable]; got != 2 {
		t.Errorf("available items = %d, want 2", got)
	}
	if got := summary.Items[models.ItemStatusMaintenance]; got != 1 {
		t.Errorf("maintenance items = %d, want 1", got)
	}
	if got := summary.Requests[models.RequestStatusWaiting]; got != 1 {
		t.Errorf("waiting requests = %d, want 1", got)
	}

	// Every status appears even at zero
	for _, s := range models.ItemStatuses {
		if _, ok := summary.Items[s]; !ok {
			t.Errorf("item status %q missing from summary", s)
		}
	}
	for _, s := range models.RequestStatuses {
		if _, ok := summary.Requests[s]; !ok {
			t.Errorf("request status %q missing from summary", s)
		}
	}
}
