package service

import (
	"context"
	"errors"

	"bazaar/internal/cache"
	"bazaar/internal/models"
	"bazaar/internal/repository"
	"bazaar/internal/validation"

	"gorm.io/gorm"
)

// CategoryService provides category tree business logic.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService returns a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput is the input for creating a category.
type CreateCategoryInput struct {
	Slug     string
	Name     string
	Icon     string
	ParentID *uint
}

// UpdateCategoryInput is the input for editing a category.
type UpdateCategoryInput struct {
	CategoryID uint
	Name       string
	Icon       string
	ParentID   *uint
	// ClearParent promotes the category to a root. ParentID wins when both set.
	ClearParent bool
}

// List returns all categories ordered by slug.
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetByID returns one category.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, err
	}
	return category, nil
}

// GetBySlug returns one category by its slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", slug)
		}
		return nil, err
	}
	return category, nil
}

// Create validates and persists a new category.
func (s *CategoryService) Create(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if err := validation.ValidateCategorySlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if in.ParentID != nil {
		if _, err := s.GetByID(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Slug:     in.Slug,
		Name:     in.Name,
		Icon:     in.Icon,
		ParentID: in.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		s.invalidateAncestry(ctx, category)
	}
	return category, nil
}

// Update edits a category, guarding the tree against parent cycles.
func (s *CategoryService) Update(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		category.Name = in.Name
	}
	if in.Icon != "" {
		category.Icon = in.Icon
	}
	switch {
	case in.ParentID != nil:
		if err := s.checkNoCycle(ctx, category.ID, *in.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = in.ParentID
	case in.ClearParent:
		category.ParentID = nil
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateAncestry(ctx, category)
	return category, nil
}

// Descendants returns the ids of the subtree rooted at categoryID, including
// the root itself. The walk is iterative breadth-first over batched child
// lookups, so deep trees cannot overflow the stack, and the seen set makes it
// terminate even if a cycle slipped into the stored tree.
func (s *CategoryService) Descendants(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	err := cache.Aside(ctx, cache.DescendantsKey(categoryID), &ids, cache.DescendantsTTL, func() error {
		var walkErr error
		ids, walkErr = s.walkDescendants(ctx, categoryID)
		return walkErr
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *CategoryService) walkDescendants(ctx context.Context, categoryID uint) ([]uint, error) {
	if _, err := s.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	ids := []uint{categoryID}
	seen := map[uint]bool{categoryID: true}
	frontier := []uint{categoryID}

	for len(frontier) > 0 {
		children, err := s.categoryRepo.GetChildren(ctx, frontier)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			ids = append(ids, child.ID)
			frontier = append(frontier, child.ID)
		}
	}
	return ids, nil
}

// checkNoCycle rejects a reparent that would make categoryID its own ancestor.
// It walks the parent chain upward from the proposed parent; the seen set
// bounds the walk if the stored tree is already damaged.
func (s *CategoryService) checkNoCycle(ctx context.Context, categoryID, newParentID uint) error {
	if categoryID == newParentID {
		return models.NewCycleError("Category cannot be its own parent")
	}

	seen := map[uint]bool{}
	current := newParentID
	for {
		if seen[current] {
			return models.NewCycleError("Category tree already contains a cycle")
		}
		seen[current] = true

		parent, err := s.GetByID(ctx, current)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == categoryID {
			return models.NewCycleError("Reparenting would create a cycle")
		}
		current = *parent.ParentID
	}
}

// invalidateAncestry drops cached descendant sets that include the changed
// category, i.e. its own and every ancestor's.
func (s *CategoryService) invalidateAncestry(ctx context.Context, category *models.Category) {
	ids := []uint{category.ID}
	seen := map[uint]bool{category.ID: true}
	parentID := category.ParentID
	for parentID != nil && !seen[*parentID] {
		seen[*parentID] = true
		ids = append(ids, *parentID)
		parent, err := s.categoryRepo.GetByID(ctx, *parentID)
		if err != nil {
			break
		}
		parentID = parent.ParentID
	}
	cache.InvalidateDescendants(ctx, ids)
}
