// Package models contains data structures for the application's domain models.
package models

import "time"

// Message content constraints.
const (
	MinMessageLen = 1
	MaxMessageLen = 1000
)

// Message is one buyer<->seller message scoped to a listing. Immutable once
// created except for the read flag, which only the receiver may flip.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"not null;index;index:idx_messages_thread" json:"listing_id"`
	SenderID   uint      `gorm:"not null;index:idx_messages_thread;index:idx_messages_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_messages_thread;index:idx_messages_pair" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// Relationships
	Listing  *Listing `gorm:"foreignKey:ListingID" json:"-"`
	Sender   *User    `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User    `gorm:"foreignKey:ReceiverID" json:"-"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// ConversationSummary is a derived view of one (listing, counterpart) thread.
// It is computed by the conversation aggregator, never persisted.
type ConversationSummary struct {
	ListingID     uint       `json:"listing_id"`
	Listing       *Listing   `json:"listing,omitempty"`
	CounterpartID uint       `json:"counterpart_id"`
	Counterpart   PublicUser `json:"counterpart"`
	LastPreview   string     `json:"last_preview"`
	LastAt        time.Time  `json:"last_at"`
	UnreadCount   int        `json:"unread_count"`
}
