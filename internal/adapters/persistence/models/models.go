package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Item statuses
// ============================================================

const (
	ItemStatusAvailable   = "available"
	ItemStatusBorrowed    = "borrowed"
	ItemStatusInUse       = "in_use"
	ItemStatusMaintenance = "maintenance"
	ItemStatusReserved    = "reserved"
	ItemStatusUnavailable = "unavailable"
)

// ItemStatuses lists every valid item status.
var ItemStatuses = []string{
	ItemStatusAvailable,
	ItemStatusBorrowed,
	ItemStatusInUse,
	ItemStatusMaintenance,
	ItemStatusReserved,
	ItemStatusUnavailable,
}

// ValidItemStatus reports whether status is a known item status.
func ValidItemStatus(status string) bool {
	for _, s := range ItemStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ============================================================
// Request statuses
// ============================================================

const (
	RequestStatusWaiting     = "waiting"
	RequestStatusApproved    = "approved"
	RequestStatusNotApproved = "not_approved"
	RequestStatusReturned    = "returned"
)

// RequestStatuses lists every valid borrow request status.
var RequestStatuses = []string{
	RequestStatusWaiting,
	RequestStatusApproved,
	RequestStatusNotApproved,
	RequestStatusReturned,
}

// ValidRequestStatus reports whether status is a known request status.
func ValidRequestStatus(status string) bool {
	for _, s := range RequestStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ============================================================
// Item
// ============================================================

// Item represents the items table.
// Borrower and ReturnDate are set if and only if Status is "borrowed";
// only the lifecycle coordinator writes the occupancy columns.
type Item struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text;not null" json:"description"`
	ProductCode string     `gorm:"size:50;not null;index" json:"product_code"`
	Department  string     `gorm:"size:50;not null;index" json:"department"`
	Image       string     `gorm:"size:500" json:"image,omitempty"`
	Status      string     `gorm:"size:20;not null;default:'available';index" json:"status"`
	DateAdded   time.Time  `gorm:"not null;index" json:"date_added"`
	AddedBy     string     `gorm:"size:100;not null" json:"added_by"`
	Borrower    *string    `gorm:"size:100" json:"borrower,omitempty"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// BeforeCreate assigns a uuid key, mirroring a document store's
// server-assigned ids.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsOccupied reports whether the item currently has a holder.
func (i *Item) IsOccupied() bool {
	return i.Status == ItemStatusBorrowed
}

// ============================================================
// BorrowRequest
// ============================================================

// BorrowRequest represents the borrow_requests table.
// ItemName/ItemImage/ItemCode are a snapshot of the item at request time and
// intentionally never refreshed — they are the historical record of what was
// requested. Requests are never deleted; cancellation is a transition to
// not_approved with a system note.
type BorrowRequest struct {
	ID                 string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ItemID             string     `gorm:"type:varchar(36);not null;index" json:"item_id"`
	ItemName           string     `gorm:"size:200;not null" json:"item_name"`
	ItemImage          string     `gorm:"size:500" json:"item_image,omitempty"`
	ItemCode           string     `gorm:"size:50" json:"item_code"`
	RequesterName      string     `gorm:"size:100;not null" json:"requester_name"`
	RequesterEmail     string     `gorm:"size:100;not null;index" json:"requester_email"`
	RequesterStudentID string     `gorm:"size:50" json:"requester_student_id"`
	RequestDate        time.Time  `gorm:"not null;index" json:"request_date"`
	EventDate          time.Time  `gorm:"not null" json:"event_date"`
	ReturnDate         time.Time  `gorm:"not null" json:"return_date"`
	EventName          string     `gorm:"size:200" json:"event_name"`
	Reason             string     `gorm:"type:text" json:"reason"`
	Department         string     `gorm:"size:50;index" json:"department"`
	Status             string     `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	ApprovedBy         *string    `gorm:"size:100" json:"approved_by,omitempty"`
	ApprovalDate       *time.Time `json:"approval_date,omitempty"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BorrowRequest) TableName() string {
	return "borrow_requests"
}

func (r *BorrowRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal reports whether the request can advance no further.
// approved is not terminal — it may still advance to returned.
func (r *BorrowRequest) IsTerminal() bool {
	return r.Status == RequestStatusNotApproved || r.Status == RequestStatusReturned
}

// ============================================================
// User (demo single-user mode)
// ============================================================

// User represents the users table. Only seeded demo accounts exist; the
// login flow is kept so identity can be carried in a token instead of a
// global singleton.
type User struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Department  string    `gorm:"size:50" json:"department"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Department  string `json:"department"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Department:  u.Department,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Item{},
		&BorrowRequest{},
	)
}
