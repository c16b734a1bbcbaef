package repository

import (
	"testing"

	"bazaar/internal/database"
	"bazaar/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string, parentID *uint) *models.Category {
	t.Helper()
	cat := &models.Category{Slug: slug, Name: slug, ParentID: parentID}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return cat
}

func createTestListing(t *testing.T, db *gorm.DB, l *models.Listing) *models.Listing {
	t.Helper()
	if l.Title == "" {
		l.Title = "test listing"
	}
	if l.Description == "" {
		l.Description = "test description"
	}
	if l.Status == "" {
		l.Status = models.ListingStatusActive
	}
	if len(l.Images) == 0 {
		l.Images = []string{"media/ref-1"}
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("Failed to create listing: %v", err)
	}
	return l
}
