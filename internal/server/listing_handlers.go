package server

import (
	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchListings handles GET /api/listings
func (s *Server) SearchListings(c *fiber.Ctx) error {
	in := service.SearchInput{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", service.DefaultPageSize),
	}

	if raw := c.QueryInt("category", 0); raw > 0 {
		id := uint(raw)
		in.CategoryID = &id
	}
	if v := c.QueryFloat("price_min", -1); v >= 0 {
		in.PriceMin = &v
	}
	if v := c.QueryFloat("price_max", -1); v >= 0 {
		in.PriceMax = &v
	}

	result, err := s.listingService.Search(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// GetListing handles GET /api/listings/:id
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	listing, err := s.listingService.GetListing(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listing)
}

// CreateListing handles POST /api/listings
func (s *Server) CreateListing(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		CategoryID  uint     `json:"category_id"`
		Images      []string `json:"images"`
		Location    string   `json:"location"`
		Featured    bool     `json:"featured"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody)
	}

	listing, err := s.listingService.CreateListing(c.Context(), service.CreateListingInput{
		SellerID:    currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Location:    req.Location,
		Featured:    req.Featured,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListing handles PUT /api/listings/:id
func (s *Server) UpdateListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
		Images      []string `json:"images"`
		Location    string   `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody)
	}

	listing, err := s.listingService.UpdateListing(c.Context(), service.UpdateListingInput{
		UserID:      currentUserID(c),
		ListingID:   id,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Location:    req.Location,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listing)
}

// ChangeListingStatus handles POST /api/listings/:id/status
func (s *Server) ChangeListingStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody)
	}

	listing, err := s.listingService.ChangeStatus(c.Context(), currentUserID(c), id, models.ListingStatus(req.Status))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listing)
}

// DeleteListing handles DELETE /api/listings/:id
func (s *Server) DeleteListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.listingService.DeleteListing(c.Context(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
