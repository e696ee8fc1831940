package services

import (
	"context"
	"log"
	"sync"

	"josenian-borrowease/internal/adapters/persistence/repositories"
)

// ============================================================
// Live View Feed — per-collection snapshot fan-out
// ============================================================

// Collection identifies a feed channel
type Collection string

const (
	CollectionItems    Collection = "items"
	CollectionRequests Collection = "requests"
)

// Snapshot carries the complete current contents of one collection.
// Consumers replace their local view wholesale — this is never a diff.
type Snapshot struct {
	Collection Collection  `json:"collection"`
	Data       interface{} `json:"data"`
}

// FeedClient represents a connected snapshot subscriber
type FeedClient struct {
	ID         string
	Collection Collection
	Channel    chan Snapshot
}

// FeedService maintains per-collection subscribers and republishes the full
// ordered snapshot whenever a mutation lands. Delivery is at-least-once; a
// subscriber may observe the items snapshot before or after the correlated
// requests snapshot.
type FeedService struct {
	mu      sync.RWMutex
	clients map[string]*FeedClient

	itemRepo    *repositories.ItemRepository
	requestRepo *repositories.RequestRepository
}

// NewFeedService creates a new feed service
func NewFeedService(itemRepo *repositories.ItemRepository, requestRepo *repositories.RequestRepository) *FeedService {
	return &FeedService{
		clients:     make(map[string]*FeedClient),
		itemRepo:    itemRepo,
		requestRepo: requestRepo,
	}
}

// Register adds a new feed client
func (f *FeedService) Register(client *FeedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[client.ID] = client
	log.Printf("📡 Feed client registered: %s (%s) | total=%d", client.ID, client.Collection, len(f.clients))
}

// Unregister removes a feed client
func (f *FeedService) Unregister(clientID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if client, ok := f.clients[clientID]; ok {
		close(client.Channel)
		delete(f.clients, clientID)
		log.Printf("📡 Feed client unregistered: %s | total=%d", clientID, len(f.clients))
	}
}

// ClientCount returns the number of connected clients
func (f *FeedService) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// PublishItems reloads the items snapshot and broadcasts it
func (f *FeedService) PublishItems(ctx context.Context) {
	items, err := f.itemRepo.ListAll(ctx)
	if err != nil {
		log.Printf("⚠️ Feed: failed to load items snapshot: %v", err)
		return
	}
	f.broadcast(Snapshot{Collection: CollectionItems, Data: items})
}

// PublishRequests reloads the requests snapshot and broadcasts it
func (f *FeedService) PublishRequests(ctx context.Context) {
	requests, err := f.requestRepo.ListAll(ctx)
	if err != nil {
		log.Printf("⚠️ Feed: failed to load requests snapshot: %v", err)
		return
	}
	f.broadcast(Snapshot{Collection: CollectionRequests, Data: requests})
}

// broadcast sends a snapshot to every subscriber of its collection
func (f *FeedService) broadcast(snap Snapshot) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	sent := 0
	for _, client := range f.clients {
		if client.Collection != snap.Collection {
			continue
		}
		select {
		case client.Channel <- snap:
			sent++
		default:
			// Client channel full, skip
			log.Printf("⚠️ Feed channel full for client %s, skipping", client.ID)
		}
	}
	if sent > 0 {
		log.Printf("📡 Feed broadcast [%s] → %d clients", snap.Collection, sent)
	}
}
