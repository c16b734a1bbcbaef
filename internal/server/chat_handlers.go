package server

import (
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetConversations handles GET /api/me/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	summaries, err := s.chatService.ListConversations(c.Context(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summaries)
}

// GetThread handles GET /api/listings/:id/thread/:userId
func (s *Server) GetThread(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	counterpartID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	msgs, err := s.chatService.GetThread(c.Context(), currentUserID(c), listingID, counterpartID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

// SendMessage handles POST /api/listings/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		ReceiverID uint   `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody)
	}

	msg, err := s.chatService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID:   currentUserID(c),
		ListingID:  listingID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkMessageRead handles POST /api/messages/:id/read
func (s *Server) MarkMessageRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.MarkRead(c.Context(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkThreadRead handles POST /api/listings/:id/thread/:userId/read
func (s *Server) MarkThreadRead(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	counterpartID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	marked, err := s.chatService.MarkThreadRead(c.Context(), currentUserID(c), listingID, counterpartID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"marked": marked})
}
