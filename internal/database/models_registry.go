package database

import "bazaar/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Listing{},
		&models.Message{},
		&models.Favorite{},
	}
}
