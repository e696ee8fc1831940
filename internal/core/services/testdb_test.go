package services

import (
	"testing"
	"time"

	"josenian-borrowease/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. A unique name keeps
// parallel tests from sharing state; cache=shared keeps every connection in
// one test on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// One connection only: sqlite shared-cache returns table-lock errors
	// under concurrent connections, which would make the concurrency tests
	// exercise the driver instead of the service.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, status string) *models.Item {
	t.Helper()

	item := &models.Item{
		Name:        "Epson EB-X51 Projector",
		Description: "3800-lumen XGA projector",
		ProductCode: "PRJ-001",
		Department:  "IT",
		Status:      status,
		DateAdded:   time.Now(),
		AddedBy:     "demo@josenian.edu",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func seedRequest(t *testing.T, db *gorm.DB, item *models.Item, status string) *models.BorrowRequest {
	t.Helper()

	request := &models.BorrowRequest{
		ItemID:         item.ID,
		ItemName:       item.Name,
		ItemImage:      item.Image,
		ItemCode:       item.ProductCode,
		RequesterName:  "Maria Santos",
		RequesterEmail: "maria.santos@josenian.edu",
		RequestDate:    time.Now(),
		EventDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:     time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		EventName:      "Orientation Week",
		Reason:         "Presentation equipment",
		Department:     item.Department,
		Status:         status,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return request
}

func reloadItem(t *testing.T, db *gorm.DB, id string) *models.Item {
	t.Helper()

	var item models.Item
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		t.Fatalf("reload item %s: %v", id, err)
	}
	return &item
}

func reloadRequest(t *testing.T, db *gorm.DB, id string) *models.BorrowRequest {
	t.Helper()

	var request models.BorrowRequest
	if err := db.First(&request, "id = ?", id).Error; err != nil {
		t.Fatalf("reload request %s: %v", id, err)
	}
	return &request
}
