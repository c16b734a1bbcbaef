package repository

import (
	"context"

	"bazaar/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines the interface for favorite data operations
type FavoriteRepository interface {
	// Add inserts the (user, listing) pair. The insert rides on the unique
	// composite index with ON CONFLICT DO NOTHING, so concurrent togglers
	// cannot create duplicates. Returns false when the pair already existed.
	Add(ctx context.Context, userID, listingID uint) (bool, error)
	// Remove deletes the pair. Returns false when no row existed.
	Remove(ctx context.Context, userID, listingID uint) (bool, error)
	// ListByUser returns the user's favorites ordered by creation time,
	// newest first, with the target listing preloaded when it still exists.
	ListByUser(ctx context.Context, userID uint) ([]*models.Favorite, error)
}

// favoriteRepository implements FavoriteRepository
type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, listingID uint) (bool, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	fav := models.Favorite{
		UserID:    userID,
		ListingID: listingID,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, listingID uint) (bool, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Favorite, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var favorites []*models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Listing").
		Preload("Listing.Category").
		Order("created_at DESC, id DESC").
		Find(&favorites).Error
	return favorites, translate(err)
}
