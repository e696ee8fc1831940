package config

import (
	"log"
	"time"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDemoUsers(); err != nil {
		log.Printf("⚠️ User seeder skipped: %v", err)
	}
	if err := s.seedSampleItems(); err != nil {
		log.Printf("⚠️ Item seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDemoUsers seeds the demo accounts. There is no registration flow;
// these are the only way to obtain a token.
func (s *Seeder) seedDemoUsers() error {
	var count int64
	s.db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil // Users already exist
	}

	hashedPassword, err := password.Hash("demo12345")
	if err != nil {
		return err
	}

	users := []models.User{
		{
			Email:       "demo@josenian.edu",
			DisplayName: "Demo User",
			Password:    hashedPassword,
			Department:  "IT",
		},
		{
			Email:       "custodian@josenian.edu",
			DisplayName: "Equipment Custodian",
			Password:    hashedPassword,
			Department:  "Engineering",
		},
	}

	for i := range users {
		if err := s.db.Create(&users[i]).Error; err != nil {
			return err
		}
		log.Printf("✅ Demo user created: %s", users[i].Email)
	}
	return nil
}

// seedSampleItems seeds a starter catalog so a fresh install is not empty
func (s *Seeder) seedSampleItems() error {
	var count int64
	s.db.Model(&models.Item{}).Count(&count)
	if count > 0 {
		return nil // Catalog already populated
	}

	now := time.Now()
	items := []models.Item{
		{
			Name:        "Epson EB-X51 Projector",
			Description: "3800-lumen XGA projector with HDMI and VGA inputs",
			ProductCode: "PRJ-001",
			Department:  "IT",
			Status:      models.ItemStatusAvailable,
			DateAdded:   now,
			AddedBy:     "demo@josenian.edu",
		},
		{
			Name:        "Behringer X1204USB Mixer",
			Description: "12-input analog mixer with USB audio interface",
			ProductCode: "AUD-014",
			Department:  "Arts and Sciences",
			Status:      models.ItemStatusAvailable,
			DateAdded:   now,
			AddedBy:     "demo@josenian.edu",
		},
		{
			Name:        "Fluke 117 Multimeter",
			Description: "True-RMS digital multimeter for electronics lab work",
			ProductCode: "ENG-233",
			Department:  "Engineering",
			Status:      models.ItemStatusMaintenance,
			DateAdded:   now,
			AddedBy:     "custodian@josenian.edu",
		},
	}

	for i := range items {
		if err := s.db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ Sample items seeded: %d", len(items))
	return nil
}
