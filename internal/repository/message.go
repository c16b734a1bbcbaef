package repository

import (
	"context"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	// ListForUser returns every message the user sent or received, most
	// recent first. The conversation aggregator derives threads from this.
	ListForUser(ctx context.Context, userID uint) ([]*models.Message, error)
	// Thread returns the full history between two users on one listing,
	// oldest first.
	Thread(ctx context.Context, listingID, userA, userB uint) ([]*models.Message, error)
	MarkRead(ctx context.Context, id uint) error
	// MarkThreadRead flips every unread message addressed to receiver in the
	// (listing, sender) thread. Returns the number of messages flipped.
	MarkThreadRead(ctx context.Context, listingID, receiverID, senderID uint) (int64, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(r.db.WithContext(ctx).Create(msg).Error)
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *messageRepository) ListForUser(ctx context.Context, userID uint) ([]*models.Message, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	return messages, translate(err)
}

func (r *messageRepository) Thread(ctx context.Context, listingID, userA, userB uint) ([]*models.Message, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA,
		).
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, translate(err)
}

func (r *messageRepository) MarkRead(ctx context.Context, id uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error)
}

func (r *messageRepository) MarkThreadRead(ctx context.Context, listingID, receiverID, senderID uint) (int64, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("listing_id = ? AND receiver_id = ? AND sender_id = ? AND is_read = ?",
			listingID, receiverID, senderID, false).
		Update("is_read", true)
	return res.RowsAffected, translate(res.Error)
}
