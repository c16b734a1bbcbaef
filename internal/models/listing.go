// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

const (
	// ListingStatusActive indicates a listing that is publicly visible and for sale.
	ListingStatusActive ListingStatus = "active"
	// ListingStatusSold indicates a listing whose item was sold. Terminal.
	ListingStatusSold ListingStatus = "sold"
	// ListingStatusExpired indicates a listing that aged out. Terminal.
	ListingStatusExpired ListingStatus = "expired"
)

// Listing media constraints.
const (
	MinListingImages = 1
	MaxListingImages = 10
)

// CanTransitionTo reports whether the directed status graph allows s -> next.
// Only active -> sold and active -> expired are legal; sold and expired are terminal.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	if s != ListingStatusActive {
		return false
	}
	return next == ListingStatusSold || next == ListingStatusExpired
}

// Valid reports whether s is one of the known statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusExpired:
		return true
	}
	return false
}

// Listing represents a sellable item record.
// Images holds opaque media references issued by the upload collaborator.
type Listing struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Price       float64       `gorm:"not null" json:"price"`
	CategoryID  uint          `gorm:"not null;index" json:"category_id"`
	Category    *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SellerID    uint          `gorm:"not null;index" json:"seller_id"`
	Seller      *User         `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Images      []string      `gorm:"serializer:json" json:"images"`
	Location    string        `gorm:"index" json:"location"`
	Status      ListingStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	Featured    bool          `gorm:"default:false" json:"featured"`
	Views       uint64        `gorm:"default:0" json:"views"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (Listing) TableName() string {
	return "listings"
}
