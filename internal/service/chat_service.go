// Package service provides application business logic (listings, chat, users, etc.).
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"bazaar/internal/models"
	"bazaar/internal/observability"
	"bazaar/internal/repository"

	"gorm.io/gorm"
)

// ChatService aggregates per-listing message threads into conversations.
type ChatService struct {
	messageRepo repository.MessageRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
}

// NewChatService returns a new ChatService.
func NewChatService(
	messageRepo repository.MessageRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

// SendMessageInput is the input for sending a message.
type SendMessageInput struct {
	SenderID   uint
	ListingID  uint
	ReceiverID uint
	Content    string
}

// previewLen caps the conversation list's last-message excerpt, in runes.
const previewLen = 120

// truncateRunes caps s at max runes without splitting a multibyte sequence.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// SendMessage validates and persists one message, created unread.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(in.Content)
	// Bounds are in characters, not bytes.
	if n := utf8.RuneCountInString(content); n < models.MinMessageLen || n > models.MaxMessageLen {
		return nil, models.NewValidationError("Message content must be between 1 and 1000 characters")
	}
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	if _, err := s.listingRepo.GetByID(ctx, in.ListingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", in.ListingID)
		}
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.ReceiverID)
		}
		return nil, err
	}

	msg := &models.Message{
		ListingID:  in.ListingID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.MessagesSent.Inc()
	return msg, nil
}

// threadKey identifies one conversation from a user's point of view.
type threadKey struct {
	listingID     uint
	counterpartID uint
}

// ListConversations groups the user's messages into one summary per
// (listing, counterpart) pair, most recently active first. Everything is
// derived from a single newest-first scan of the user's messages, so the
// first message seen per pair is the thread's latest.
func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]*models.ConversationSummary, error) {
	msgs, err := s.messageRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var order []threadKey
	summaries := map[threadKey]*models.ConversationSummary{}
	for _, msg := range msgs {
		counterpartID := msg.SenderID
		if counterpartID == userID {
			counterpartID = msg.ReceiverID
		}
		key := threadKey{listingID: msg.ListingID, counterpartID: counterpartID}

		summary, ok := summaries[key]
		if !ok {
			summary = &models.ConversationSummary{
				ListingID:     msg.ListingID,
				CounterpartID: counterpartID,
				LastPreview:   truncateRunes(msg.Content, previewLen),
				LastAt:        msg.CreatedAt,
			}
			summaries[key] = summary
			order = append(order, key)
		}
		if msg.ReceiverID == userID && !msg.IsRead {
			summary.UnreadCount++
		}
	}

	if err := s.attachReferences(ctx, order, summaries); err != nil {
		return nil, err
	}

	out := make([]*models.ConversationSummary, 0, len(order))
	for _, key := range order {
		out = append(out, summaries[key])
	}
	return out, nil
}

// attachReferences batch-loads the listings and counterpart users the
// summaries point at. Missing references stay nil rather than failing the call.
func (s *ChatService) attachReferences(ctx context.Context, order []threadKey, summaries map[threadKey]*models.ConversationSummary) error {
	if len(order) == 0 {
		return nil
	}

	listingIDs := make([]uint, 0, len(order))
	userIDs := make([]uint, 0, len(order))
	seenListing := map[uint]bool{}
	seenUser := map[uint]bool{}
	for _, key := range order {
		if !seenListing[key.listingID] {
			seenListing[key.listingID] = true
			listingIDs = append(listingIDs, key.listingID)
		}
		if !seenUser[key.counterpartID] {
			seenUser[key.counterpartID] = true
			userIDs = append(userIDs, key.counterpartID)
		}
	}

	listings, err := s.listingRepo.GetByIDs(ctx, listingIDs)
	if err != nil {
		return err
	}
	listingsByID := make(map[uint]*models.Listing, len(listings))
	for _, l := range listings {
		listingsByID[l.ID] = l
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	usersByID := make(map[uint]*models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	for _, key := range order {
		summary := summaries[key]
		summary.Listing = listingsByID[key.listingID]
		if u, ok := usersByID[key.counterpartID]; ok {
			summary.Counterpart = u.Public()
		}
	}
	return nil
}

// GetThread returns the chronological history between the caller and the
// counterpart for one listing. The query is scoped to the caller's side of
// the pair, so a thread the caller is not part of comes back empty.
func (s *ChatService) GetThread(ctx context.Context, userID, listingID, counterpartID uint) ([]*models.Message, error) {
	if userID == counterpartID {
		return nil, models.NewValidationError("Cannot fetch a thread with yourself")
	}
	return s.messageRepo.Thread(ctx, listingID, userID, counterpartID)
}

// MarkRead flips the read flag of one message. Only the receiver may do so,
// and re-marking an already-read message is a no-op.
func (s *ChatService) MarkRead(ctx context.Context, userID, messageID uint) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Message", messageID)
		}
		return err
	}
	if msg.ReceiverID != userID {
		return models.NewForbiddenError("Only the receiver can mark a message read")
	}
	if msg.IsRead {
		return nil
	}
	return s.messageRepo.MarkRead(ctx, messageID)
}

// MarkThreadRead marks every unread message the counterpart sent the caller
// in one listing's thread. Returns how many messages were flipped.
func (s *ChatService) MarkThreadRead(ctx context.Context, userID, listingID, counterpartID uint) (int64, error) {
	return s.messageRepo.MarkThreadRead(ctx, listingID, userID, counterpartID)
}
