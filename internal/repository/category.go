package repository

import (
	"context"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	// GetChildren returns every category whose parent is one of parentIDs.
	// It is the batched frontier step of the iterative subtree walk.
	GetChildren(ctx context.Context, parentIDs []uint) ([]*models.Category, error)
}

// categoryRepository implements CategoryRepository
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("Category slug already exists")
		}
		return translate(err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("Category slug already exists")
		}
		return translate(err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var category models.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("slug ASC").Find(&categories).Error
	return categories, translate(err)
}

func (r *categoryRepository) GetChildren(ctx context.Context, parentIDs []uint) ([]*models.Category, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Find(&categories).Error
	return categories, translate(err)
}
