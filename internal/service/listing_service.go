package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bazaar/internal/cache"
	"bazaar/internal/models"
	"bazaar/internal/observability"
	"bazaar/internal/repository"

	"gorm.io/gorm"
)

// Sort keys accepted by Search.
const (
	SortRelevance = "relevance"
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// ListingService provides listing lifecycle and search business logic.
type ListingService struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	ranking      RankingPolicy

	// resolveDescendants expands a category filter to its whole subtree.
	resolveDescendants func(ctx context.Context, categoryID uint) ([]uint, error)
	isAdmin            func(ctx context.Context, userID uint) (bool, error)

	// now is swappable for deterministic ranking tests.
	now func() time.Time
}

// NewListingService returns a new ListingService.
func NewListingService(
	listingRepo repository.ListingRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	resolveDescendants func(ctx context.Context, categoryID uint) ([]uint, error),
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ListingService {
	return &ListingService{
		listingRepo:        listingRepo,
		categoryRepo:       categoryRepo,
		userRepo:           userRepo,
		ranking:            DefaultRankingPolicy(),
		resolveDescendants: resolveDescendants,
		isAdmin:            isAdmin,
		now:                time.Now,
	}
}

// SearchInput is the filter specification for Search.
type SearchInput struct {
	Query      string
	CategoryID *uint
	Location   string
	PriceMin   *float64
	PriceMax   *float64
	Status     string
	Sort       string
	Page       int
	PageSize   int
}

// SearchResult is one page of a search plus the unpaged match count.
type SearchResult struct {
	Items    []*models.Listing `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// CreateListingInput is the input for creating a listing.
type CreateListingInput struct {
	SellerID    uint
	Title       string
	Description string
	Price       float64
	CategoryID  uint
	Images      []string
	Location    string
	Featured    bool
}

// UpdateListingInput is the input for editing a listing's content fields.
type UpdateListingInput struct {
	UserID      uint
	ListingID   uint
	Title       string
	Description string
	Price       *float64
	Images      []string
	Location    string
}

// Search runs a filtered, ranked, paginated search over listings.
func (s *ListingService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	start := time.Now()

	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	if in.PriceMin != nil && *in.PriceMin < 0 {
		return nil, models.NewValidationError("price_min cannot be negative")
	}
	if in.PriceMin != nil && in.PriceMax != nil && *in.PriceMin > *in.PriceMax {
		return nil, models.NewValidationError("price_min cannot exceed price_max")
	}

	status := models.ListingStatusActive
	if in.Status != "" {
		status = models.ListingStatus(in.Status)
		if !status.Valid() {
			return nil, models.NewValidationError("Invalid status filter")
		}
	}

	terms := strings.Fields(strings.ToLower(in.Query))

	sortKey := in.Sort
	switch sortKey {
	case "":
		if len(terms) > 0 {
			sortKey = SortRelevance
		} else {
			sortKey = SortNewest
		}
	case SortRelevance, SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		return nil, models.NewValidationError("Invalid sort key")
	}
	// Relevance without text degrades to newest for stable pagination.
	if sortKey == SortRelevance && len(terms) == 0 {
		sortKey = SortNewest
	}

	q := repository.ListingQuery{
		Terms:    terms,
		Location: strings.ToLower(strings.TrimSpace(in.Location)),
		PriceMin: in.PriceMin,
		PriceMax: in.PriceMax,
		Statuses: []models.ListingStatus{status},
	}
	if in.CategoryID != nil {
		ids, err := s.resolveDescendants(ctx, *in.CategoryID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				return nil, models.NewValidationError("Category does not exist")
			}
			return nil, err
		}
		q.CategoryIDs = ids
	}

	result, err := s.runSearch(ctx, q, sortKey, page, pageSize)
	if err != nil {
		return nil, err
	}
	observability.ObserveSearch(sortKey, start, result.Total)
	return result, nil
}

func (s *ListingService) runSearch(ctx context.Context, q repository.ListingQuery, sortKey string, page, pageSize int) (*SearchResult, error) {
	result := &SearchResult{Items: []*models.Listing{}, Page: page, PageSize: pageSize}

	if sortKey == SortRelevance {
		// Scoring needs the whole candidate set; the total falls out for free.
		candidates, err := s.listingRepo.FindAll(ctx, q)
		if err != nil {
			return nil, err
		}
		s.ranking.Rank(candidates, q.Terms, s.now())
		result.Total = int64(len(candidates))
		offset := (page - 1) * pageSize
		if offset < len(candidates) {
			end := offset + pageSize
			if end > len(candidates) {
				end = len(candidates)
			}
			result.Items = candidates[offset:end]
		}
		return result, nil
	}

	switch sortKey {
	case SortNewest:
		q.OrderBy = "created_at DESC, id DESC"
	case SortPriceAsc:
		q.OrderBy = "price ASC, id ASC"
	case SortPriceDesc:
		q.OrderBy = "price DESC, id ASC"
	}
	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize

	total, err := s.listingRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	result.Total = total
	if total == 0 {
		return result, nil
	}

	items, err := s.listingRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	result.Items = items
	return result, nil
}

// GetListing returns one listing by id and bumps its view counter. The counter
// write is fire-and-forget: the read succeeds even if the increment fails.
func (s *ListingService) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	var listing *models.Listing
	err := cache.Aside(ctx, cache.ListingKey(id), &listing, cache.ListingTTL, func() error {
		var fetchErr error
		listing, fetchErr = s.listingRepo.GetByID(ctx, id)
		return fetchErr
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", id)
		}
		return nil, err
	}

	go func(asyncCtx context.Context) {
		if incErr := s.listingRepo.IncrementViews(asyncCtx, id); incErr != nil {
			observability.ViewIncrementFailures.Inc()
			observability.LogAsyncOperationError(asyncCtx, "increment_views", incErr, map[string]interface{}{
				"listing_id": id,
			})
		}
	}(context.WithoutCancel(ctx))

	return listing, nil
}

// CreateListing validates and persists a new listing in the active state.
func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price cannot be negative")
	}
	if len(in.Images) < models.MinListingImages || len(in.Images) > models.MaxListingImages {
		return nil, models.NewValidationError("Listings require between 1 and 10 images")
	}

	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Category does not exist")
		}
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, in.SellerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Seller does not exist")
		}
		return nil, err
	}

	listing := &models.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		SellerID:    in.SellerID,
		Images:      in.Images,
		Location:    in.Location,
		Featured:    in.Featured,
		Status:      models.ListingStatusActive,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return s.listingRepo.GetByID(ctx, listing.ID)
}

// ChangeStatus transitions a listing along the allowed lifecycle edges. The
// write is a compare-and-swap on the caller-observed status, so two concurrent
// "mark sold" calls cannot both report success.
func (s *ListingService) ChangeStatus(ctx context.Context, userID, listingID uint, to models.ListingStatus) (*models.Listing, error) {
	if !to.Valid() {
		return nil, models.NewValidationError("Invalid listing status")
	}

	listing, err := s.getOwned(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}

	from := listing.Status
	if !from.CanTransitionTo(to) {
		return nil, models.NewInvalidStateError("Cannot transition listing from " + string(from) + " to " + string(to))
	}

	swapped, err := s.listingRepo.UpdateStatus(ctx, listingID, from, to)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, models.NewInvalidStateError("Listing status changed concurrently")
	}

	cache.InvalidateListing(ctx, listingID)
	return s.listingRepo.GetByID(ctx, listingID)
}

// UpdateListing edits content fields of the caller's own listing.
func (s *ListingService) UpdateListing(ctx context.Context, in UpdateListingInput) (*models.Listing, error) {
	listing, err := s.getOwned(ctx, in.UserID, in.ListingID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		listing.Title = in.Title
	}
	if in.Description != "" {
		listing.Description = in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, models.NewValidationError("Price cannot be negative")
		}
		listing.Price = *in.Price
	}
	if in.Images != nil {
		if len(in.Images) < models.MinListingImages || len(in.Images) > models.MaxListingImages {
			return nil, models.NewValidationError("Listings require between 1 and 10 images")
		}
		listing.Images = in.Images
	}
	if in.Location != "" {
		listing.Location = in.Location
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	cache.InvalidateListing(ctx, in.ListingID)
	return listing, nil
}

// DeleteListing soft-deletes a listing. Admins may remove any listing.
func (s *ListingService) DeleteListing(ctx context.Context, userID, listingID uint) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Listing", listingID)
		}
		return err
	}

	if listing.SellerID != userID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own listings")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own listings")
		}
	}

	if err := s.listingRepo.Delete(ctx, listingID); err != nil {
		return err
	}
	cache.InvalidateListing(ctx, listingID)
	return nil
}

func (s *ListingService) getOwned(ctx context.Context, userID, listingID uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Listing", listingID)
		}
		return nil, err
	}
	if listing.SellerID != userID {
		return nil, models.NewForbiddenError("You can only modify your own listings")
	}
	return listing, nil
}
