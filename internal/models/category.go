// Package models contains data structures for the application's domain models.
package models

import "time"

// Category is a node in the self-referential category tree. The parent pointer
// is stored as an id reference, never a direct link; acyclicity is validated on
// every parent update by the category service.
type Category struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Slug      string     `gorm:"unique;not null" json:"slug"`
	Name      string     `gorm:"not null" json:"name"`
	Icon      string     `json:"icon,omitempty"`
	ParentID  *uint      `gorm:"index" json:"parent_id,omitempty"`
	Parent    *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children  []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}
