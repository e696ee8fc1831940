package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"josenian-borrowease/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// FeedHandler handles the live view feed SSE endpoints (public, no auth)
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// ============================================================
// GET /api/v1/feed/items — items snapshot stream (SSE)
// ============================================================
func (h *FeedHandler) ItemsFeed(c *fiber.Ctx) error {
	return h.stream(c, services.CollectionItems)
}

// ============================================================
// GET /api/v1/feed/requests — requests snapshot stream (SSE)
// ============================================================
func (h *FeedHandler) RequestsFeed(c *fiber.Ctx) error {
	return h.stream(c, services.CollectionRequests)
}

// stream registers a subscriber and pushes every snapshot until the client
// goes away. Each connected client first receives the current snapshot so it
// never starts from an empty view.
func (h *FeedHandler) stream(c *fiber.Ctx, collection services.Collection) error {
	clientID := fmt.Sprintf("%s-%s", collection, uuid.NewString())

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")
	c.Set("Access-Control-Allow-Origin", "*")

	ctx := c.Context()
	feed := h.feedService

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		client := &services.FeedClient{
			ID:         clientID,
			Collection: collection,
			Channel:    make(chan services.Snapshot, 8),
		}

		feed.Register(client)
		defer feed.Unregister(clientID)

		// Send initial connection event
		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":\"%s\",\"collection\":\"%s\"}\n\n", clientID, collection)
		w.Flush()

		// Push the current snapshot right away
		switch collection {
		case services.CollectionItems:
			feed.PublishItems(ctx)
		case services.CollectionRequests:
			feed.PublishRequests(ctx)
		}

		// Heartbeat ticker
		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case snap, ok := <-client.Channel:
				if !ok {
					return
				}
				writeSnapshot(w, snap)
				if err := w.Flush(); err != nil {
					return
				}

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 Feed client disconnected: %s", clientID)
					return
				}
			}
		}
	})

	return nil
}

// writeSnapshot writes one snapshot as a formatted SSE event
func writeSnapshot(w *bufio.Writer, snap services.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Printf("⚠️ Feed: failed to marshal snapshot: %v", err)
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
}
