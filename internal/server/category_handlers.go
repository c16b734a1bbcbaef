package server

import (
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryBySlug handles GET /api/categories/:slug
func (s *Server) GetCategoryBySlug(c *fiber.Ctx) error {
	category, err := s.categoryService.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

// GetCategoryDescendants handles GET /api/categories/:id/descendants
func (s *Server) GetCategoryDescendants(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ids, err := s.categoryService.Descendants(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"category_ids": ids})
}

// CreateCategory handles POST /api/admin/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Slug     string `json:"slug"`
		Name     string `json:"name"`
		Icon     string `json:"icon"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody)
	}

	category, err := s.categoryService.Create(c.Context(), service.CreateCategoryInput{
		Slug:     req.Slug,
		Name:     req.Name,
		Icon:     req.Icon,
		ParentID: req.ParentID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/admin/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		Icon        string `json:"icon"`
		ParentID    *uint  `json:"parent_id"`
		ClearParent bool   `json:"clear_parent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody)
	}

	category, err := s.categoryService.Update(c.Context(), service.UpdateCategoryInput{
		CategoryID:  id,
		Name:        req.Name,
		Icon:        req.Icon,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}
