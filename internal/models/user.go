// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered seller/buyer in the Bazaar application.
// Emails are stored lowercased so the unique index is case-insensitive.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Phone     string         `json:"phone,omitempty"`
	Location  string         `json:"location,omitempty"`
	Avatar    string         `json:"avatar,omitempty"`
	IsAdmin   bool           `gorm:"default:false" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Listings  []Listing      `gorm:"foreignKey:SellerID" json:"listings,omitempty"`
}

// PublicUser is the subset of User safe to embed in other payloads.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Location string `json:"location,omitempty"`
}

// Public strips credential and contact fields for embedding in listings and threads.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Location: u.Location,
	}
}
