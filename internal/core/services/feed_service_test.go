package services

import (
	"context"
	"testing"
	"time"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

func newFeedService(t *testing.T, db *gorm.DB) *FeedService {
	t.Helper()
	return NewFeedService(
		repositories.NewItemRepository(db),
		repositories.NewRequestRepository(db))
}

func waitForSnapshot(t *testing.T, ch chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
		return Snapshot{}
	}
}

func TestFeedDeliversFullSnapshot(t *testing.T) {
	db := newTestDB(t)
	feed := newFeedService(t, db)
	seedItem(t, db, models.ItemStatusAvailable)
	seedItem(t, db, models.ItemStatusMaintenance)

	client := &FeedClient{
		ID:         "test-items",
		Collection: CollectionItems,
		Channel:    make(chan Snapshot, 8),
	}
	feed.Register(client)
	defer feed.Unregister(client.ID)

	feed.PublishItems(context.Background())

	snap := waitForSnapshot(t, client.Channel)
	if snap.Collection != CollectionItems {
		t.Errorf("collection = %q, want items", snap.Collection)
	}
	items, ok := snap.Data.([]models.Item)
	if !ok {
		t.Fatalf("data type = %T, want []models.Item", snap.Data)
	}
	if len(items) != 2 {
		t.Errorf("snapshot size = %d, want 2 (full collection, not a diff)", len(items))
	}
}

func TestFeedFiltersByCollection(t *testing.T) {
	db := newTestDB(t)
	feed := newFeedService(t, db)
	item := seedItem(t, db, models.ItemStatusAvailable)
	seedRequest(t, db, item, models.RequestStatusWaiting)

	itemsClient := &FeedClient{ID: "c-items", Collection: CollectionItems, Channel: make(chan Snapshot, 8)}
	requestsClient := &FeedClient{ID: "c-reqs", Collection: CollectionRequests, Channel: make(chan Snapshot, 8)}
	feed.Register(itemsClient)
	feed.Register(requestsClient)
	defer feed.Unregister(itemsClient.ID)
	defer feed.Unregister(requestsClient.ID)

	feed.PublishRequests(context.Background())

	snap := waitForSnapshot(t, requestsClient.Channel)
	if snap.Collection != CollectionRequests {
		t.Errorf("collection = %q, want requests", snap.Collection)
	}

	select {
	case snap := <-itemsClient.Channel:
		t.Errorf("items client received %q snapshot", snap.Collection)
	default:
	}
}

func TestFeedSkipsFullChannel(t *testing.T) {
	db := newTestDB(t)
	feed := newFeedService(t, db)
	seedItem(t, db, models.ItemStatusAvailable)

	// Zero-capacity channel with no reader: every broadcast must be
	// skipped without blocking.
	stuck := &FeedClient{ID: "c-stuck", Collection: CollectionItems, Channel: make(chan Snapshot)}
	feed.Register(stuck)
	defer feed.Unregister(stuck.ID)

	done := make(chan struct{})
	go func() {
		feed.PublishItems(context.Background())
		feed.PublishItems(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full client channel")
	}
}

func TestFeedUnregisterClosesChannel(t *testing.T) {
	db := newTestDB(t)
	feed := newFeedService(t, db)

	client := &FeedClient{ID: "c-gone", Collection: CollectionItems, Channel: make(chan Snapshot, 1)}
	feed.Register(client)
	if feed.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", feed.ClientCount())
	}

	feed.Unregister(client.ID)
	if feed.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", feed.ClientCount())
	}
	if _, open := <-client.Channel; open {
		t.Error("channel still open after unregister")
	}

	// Unregistering twice must be a no-op
	feed.Unregister(client.ID)
}

func TestMutationsPublishSnapshots(t *testing.T) {
	db := newTestDB(t)
	feed := newFeedService(t, db)
	itemRepo := repositories.NewItemRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	itemSvc := NewItemService(db, itemRepo, feed)
	requestSvc := NewRequestService(requestRepo, itemRepo, feed)
	lifecycleSvc := NewLifecycleService(db, feed)
	ctx := context.Background()

	itemsClient := &FeedClient{ID: "w-items", Collection: CollectionItems, Channel: make(chan Snapshot, 16)}
	requestsClient := &FeedClient{ID: "w-reqs", Collection: CollectionRequests, Channel: make(chan Snapshot, 16)}
	feed.Register(itemsClient)
	feed.Register(requestsClient)
	defer feed.Unregister(itemsClient.ID)
	defer feed.Unregister(requestsClient.ID)

	item, err := itemSvc.Create(ctx, &CreateItemInput{
		Name:        "Tripod",
		Description: "Aluminum tripod",
		ProductCode: "CAM-021",
		Department:  "IT",
	}, adder)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	waitForSnapshot(t, itemsClient.Channel)

	request, err := requestSvc.Submit(ctx, validSubmitInput(item.ID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitForSnapshot(t, requestsClient.Channel)

	if _, err := lifecycleSvc.Approve(ctx, request.ID, approverX, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Approval touches both collections
	waitForSnapshot(t, itemsClient.Channel)
	waitForSnapshot(t, requestsClient.Channel)
}
