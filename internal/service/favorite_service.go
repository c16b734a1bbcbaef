package service

import (
	"context"
	"errors"

	"bazaar/internal/models"
	"bazaar/internal/observability"
	"bazaar/internal/repository"

	"gorm.io/gorm"
)

// FavoriteService provides bookmark business logic.
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	listingRepo  repository.ListingRepository
}

// NewFavoriteService returns a new FavoriteService.
func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	listingRepo repository.ListingRepository,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		listingRepo:  listingRepo,
	}
}

// ToggleResult reports which way a toggle resolved.
type ToggleResult struct {
	Added bool `json:"added"`
}

// Toggle adds the favorite if absent, removes it if present. The add path is
// a conditional insert riding on the store's unique index, so concurrent
// toggles serialize there instead of racing an existence check.
func (s *FavoriteService) Toggle(ctx context.Context, userID, listingID uint) (*ToggleResult, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", listingID)
		}
		return nil, err
	}

	added, err := s.favoriteRepo.Add(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	if added {
		observability.FavoriteToggles.WithLabelValues("added").Inc()
		return &ToggleResult{Added: true}, nil
	}

	// The pair already existed, so this toggle is a removal. If a concurrent
	// toggle removed it first, ours resolves as the re-add.
	removed, err := s.favoriteRepo.Remove(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	if !removed {
		added, err = s.favoriteRepo.Add(ctx, userID, listingID)
		if err != nil {
			return nil, err
		}
		observability.FavoriteToggles.WithLabelValues("added").Inc()
		return &ToggleResult{Added: added}, nil
	}
	observability.FavoriteToggles.WithLabelValues("removed").Inc()
	return &ToggleResult{Added: false}, nil
}

// ListFavorites returns the user's favorited listings, newest favorite first.
// Favorites whose listing has since been removed are skipped, not errors.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uint) ([]*models.Listing, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	listings := make([]*models.Listing, 0, len(favorites))
	for _, fav := range favorites {
		if fav.Listing == nil {
			continue
		}
		listings = append(listings, fav.Listing)
	}
	return listings, nil
}
