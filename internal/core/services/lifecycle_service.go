package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Lifecycle coordinator — approve / reject / return / cancel
// ============================================================

// LifecycleService owns every status transition of a borrow request and the
// paired occupancy writes on its item. No other service writes
// items.status/borrower/return_date or borrow_requests.status.
//
// Each transition runs inside one transaction, guarded by a per-item mutex so
// two approvals of the same item serialize in-process, plus conditional
// UPDATE ... WHERE status = ? guards so a stale read can never overwrite a
// concurrent transition even across processes.
type LifecycleService struct {
	db    *gorm.DB
	feed  *FeedService
	locks sync.Map // itemID -> *sync.Mutex
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(db *gorm.DB, feed *FeedService) *LifecycleService {
	return &LifecycleService{db: db, feed: feed}
}

func (s *LifecycleService) itemLock(itemID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(itemID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// publishBoth pushes fresh snapshots of both collections after a transition
// that touched both tables.
func (s *LifecycleService) publishBoth(ctx context.Context) {
	if s.feed == nil {
		return
	}
	s.feed.PublishItems(ctx)
	s.feed.PublishRequests(ctx)
}

// loadRequest fetches a request inside a transaction, translating errors.
func loadRequest(tx *gorm.DB, id string) (*models.BorrowRequest, error) {
	var request models.BorrowRequest
	if err := tx.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return &request, nil
}

// Approve moves a waiting request to approved and marks its item borrowed
// with the requester as holder. Fails with Conflict if the item is already
// borrowed or another approved request exists for it, and with
// InvalidTransition if the request is not waiting.
//
// The item row is claimed first; only once the conditional item update lands
// does the request flip to approved. If the request update then reports zero
// rows the transaction rolls back, so a half-applied approval never commits.
func (s *LifecycleService) Approve(ctx context.Context, requestID string, approver domain.Identity, notes string) (*models.BorrowRequest, error) {
	var approved *models.BorrowRequest

	// Resolve the item id outside the transaction so we know which lock
	// to take. The in-tx re-read below is what the decision rests on.
	itemID, err := s.requestItemID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	mu := s.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.RequestStatusWaiting {
			return fmt.Errorf("%w: request %s is %s, only waiting requests can be approved",
				domain.ErrInvalidTransition, request.ID, request.Status)
		}

		// At most one approved request per item at any time
		var others int64
		if err := tx.Model(&models.BorrowRequest{}).
			Where("item_id = ? AND status = ? AND id <> ?",
				request.ItemID, models.RequestStatusApproved, request.ID).
			Count(&others).Error; err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if others > 0 {
			return fmt.Errorf("%w: item %s already has an approved request", domain.ErrConflict, request.ItemID)
		}

		var item models.Item
		if err := tx.First(&item, "id = ?", request.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %s", domain.ErrNotFound, request.ItemID)
			}
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if item.IsOccupied() {
			return fmt.Errorf("%w: item %s is already borrowed", domain.ErrConflict, item.ID)
		}

		// Claim the item. The WHERE status guard rejects the update if
		// another writer moved the item since our read.
		now := time.Now()
		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", item.ID, item.Status).
			Updates(map[string]interface{}{
				"status":      models.ItemStatusBorrowed,
				"borrower":    request.RequesterEmail,
				"return_date": request.ReturnDate,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: item %s changed concurrently", domain.ErrConflict, item.ID)
		}

		res = tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusWaiting).
			Updates(map[string]interface{}{
				"status":        models.RequestStatusApproved,
				"approved_by":   approver.Email,
				"approval_date": now,
				"notes":         notes,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request %s changed concurrently", domain.ErrInvalidTransition, request.ID)
		}

		request.Status = models.RequestStatusApproved
		request.ApprovedBy = &approver.Email
		request.ApprovalDate = &now
		request.Notes = notes
		approved = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request approved: %s → item %s borrowed by %s (approved by %s)",
		approved.ID, approved.ItemID, approved.RequesterEmail, approver.Email)

	s.publishBoth(ctx)
	return approved, nil
}

// Reject moves a waiting request to not_approved. Notes are mandatory — the
// requester must always see why. The item is untouched.
func (s *LifecycleService) Reject(ctx context.Context, requestID string, approver domain.Identity, notes string) (*models.BorrowRequest, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, fmt.Errorf("%w: rejection notes are required", domain.ErrValidation)
	}

	var rejected *models.BorrowRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.RequestStatusWaiting {
			return fmt.Errorf("%w: request %s is %s, only waiting requests can be rejected",
				domain.ErrInvalidTransition, request.ID, request.Status)
		}

		now := time.Now()
		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusWaiting).
			Updates(map[string]interface{}{
				"status":        models.RequestStatusNotApproved,
				"approved_by":   approver.Email,
				"approval_date": now,
				"notes":         notes,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request %s changed concurrently", domain.ErrInvalidTransition, request.ID)
		}

		request.Status = models.RequestStatusNotApproved
		request.ApprovedBy = &approver.Email
		request.ApprovalDate = &now
		request.Notes = notes
		rejected = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request rejected: %s by %s", rejected.ID, approver.Email)

	if s.feed != nil {
		s.feed.PublishRequests(ctx)
	}
	return rejected, nil
}

// MarkReturned closes out an approved request and frees its item. The item
// update is conditional on status = borrowed; if the item drifted out of that
// state the request is still closed, the drift is logged with both ids, and
// the occupancy columns are cleared unconditionally so the pair converges.
func (s *LifecycleService) MarkReturned(ctx context.Context, requestID string) (*models.BorrowRequest, error) {
	itemID, err := s.requestItemID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	mu := s.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	var returned *models.BorrowRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.RequestStatusApproved {
			return fmt.Errorf("%w: request %s is %s, only approved requests can be returned",
				domain.ErrInvalidTransition, request.ID, request.Status)
		}

		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", request.ItemID, models.ItemStatusBorrowed).
			Updates(map[string]interface{}{
				"status":      models.ItemStatusAvailable,
				"borrower":    nil,
				"return_date": nil,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			// Approved request but the item is not borrowed: the pair
			// drifted. Clear occupancy regardless so it converges.
			var exists int64
			if err := tx.Model(&models.Item{}).Where("id = ?", request.ItemID).Count(&exists).Error; err != nil {
				return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
			}
			if exists > 0 {
				log.Printf("❌ Inconsistent pair on return: request %s approved but item %s not borrowed; repairing item",
					request.ID, request.ItemID)
				if err := tx.Model(&models.Item{}).
					Where("id = ?", request.ItemID).
					Updates(map[string]interface{}{
						"status":      models.ItemStatusAvailable,
						"borrower":    nil,
						"return_date": nil,
					}).Error; err != nil {
					return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
				}
			} else {
				log.Printf("⚠️ Returning request %s whose item %s no longer exists", request.ID, request.ItemID)
			}
		}

		res = tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusApproved).
			Update("status", models.RequestStatusReturned)
		if res.Error != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request %s changed concurrently", domain.ErrInvalidTransition, request.ID)
		}

		request.Status = models.RequestStatusReturned
		returned = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request returned: %s, item %s available again", returned.ID, returned.ItemID)

	s.publishBoth(ctx)
	return returned, nil
}

// Cancel lets the requester withdraw their own waiting request. It lands in
// not_approved with a system note, so the ledger keeps the history.
func (s *LifecycleService) Cancel(ctx context.Context, requestID string, requester domain.Identity) (*models.BorrowRequest, error) {
	var cancelled *models.BorrowRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.RequestStatusWaiting {
			return fmt.Errorf("%w: request %s is %s, only waiting requests can be cancelled",
				domain.ErrInvalidTransition, request.ID, request.Status)
		}
		if !strings.EqualFold(request.RequesterEmail, requester.Email) {
			return fmt.Errorf("%w: only the requester may cancel their request", domain.ErrValidation)
		}

		now := time.Now()
		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusWaiting).
			Updates(map[string]interface{}{
				"status":        models.RequestStatusNotApproved,
				"approved_by":   requester.Email,
				"approval_date": now,
				"notes":         "Cancelled by requester",
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request %s changed concurrently", domain.ErrInvalidTransition, request.ID)
		}

		request.Status = models.RequestStatusNotApproved
		request.ApprovedBy = &requester.Email
		request.ApprovalDate = &now
		request.Notes = "Cancelled by requester"
		cancelled = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request cancelled: %s by %s", cancelled.ID, requester.Email)

	if s.feed != nil {
		s.feed.PublishRequests(ctx)
	}
	return cancelled, nil
}

// HasOutstandingRequest reports whether any waiting or approved request still
// references the item. Backs the registry's delete guard.
func (s *LifecycleService) HasOutstandingRequest(ctx context.Context, itemID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.BorrowRequest{}).
		Where("item_id = ? AND status IN ?", itemID,
			[]string{models.RequestStatusWaiting, models.RequestStatusApproved}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

// requestItemID looks up the item a request points at.
func (s *LifecycleService) requestItemID(ctx context.Context, requestID string) (string, error) {
	var request models.BorrowRequest
	if err := s.db.WithContext(ctx).Select("id", "item_id").First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: request %s", domain.ErrNotFound, requestID)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return request.ItemID, nil
}

// Reconcile walks every item/request pair at startup and repairs any that
// drifted apart (for example a crash between the two halves of a transition
// on an older build). The ledger is treated as the source of truth: an
// approved request forces its item to borrowed, and a borrowed item without
// an approved request is released.
func (s *LifecycleService) Reconcile(ctx context.Context) error {
	repaired := 0

	var approvedReqs []models.BorrowRequest
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusApproved).
		Find(&approvedReqs).Error; err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	approvedItems := make(map[string]bool, len(approvedReqs))
	for i := range approvedReqs {
		req := &approvedReqs[i]
		approvedItems[req.ItemID] = true

		var item models.Item
		if err := s.db.WithContext(ctx).First(&item, "id = ?", req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("❌ Reconcile: approved request %s references missing item %s", req.ID, req.ItemID)
				continue
			}
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if item.IsOccupied() {
			continue
		}

		log.Printf("❌ Reconcile: request %s approved but item %s is %s; repairing item to borrowed",
			req.ID, item.ID, item.Status)
		if err := s.db.WithContext(ctx).Model(&models.Item{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"status":      models.ItemStatusBorrowed,
				"borrower":    req.RequesterEmail,
				"return_date": req.ReturnDate,
			}).Error; err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		repaired++
	}

	var borrowedItems []models.Item
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.ItemStatusBorrowed).
		Find(&borrowedItems).Error; err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	for i := range borrowedItems {
		item := &borrowedItems[i]
		if approvedItems[item.ID] {
			continue
		}
		log.Printf("❌ Reconcile: item %s borrowed with no approved request; releasing", item.ID)
		if err := s.db.WithContext(ctx).Model(&models.Item{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"status":      models.ItemStatusAvailable,
				"borrower":    nil,
				"return_date": nil,
			}).Error; err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		repaired++
	}

	if repaired > 0 {
		log.Printf("⚠️ Reconcile repaired %d inconsistent record(s)", repaired)
	} else {
		log.Printf("✅ Reconcile: items and requests are consistent")
	}
	return nil
}
