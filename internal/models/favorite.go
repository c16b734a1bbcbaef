// Package models contains data structures for the application's domain models.
package models

import "time"

// Favorite is a user's bookmark of a listing. The composite unique index is the
// write-time uniqueness guarantee: concurrent toggles race on the index, not on
// an application-level existence check.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_listing" json:"user_id"`
	ListingID uint      `gorm:"not null;uniqueIndex:idx_favorites_user_listing" json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

// TableName specifies the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}
