package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleFavorite handles POST /api/listings/:id/favorite
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.favoriteService.Toggle(c.Context(), currentUserID(c), listingID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// GetFavorites handles GET /api/me/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	listings, err := s.favoriteService.ListFavorites(c.Context(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listings)
}
