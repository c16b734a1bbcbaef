package repository

import (
	"context"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// ListingQuery is the filter specification the query engine compiles searches into.
// Terms are pre-tokenized lowercase words matched against title+description.
type ListingQuery struct {
	Terms       []string
	CategoryIDs []uint
	Location    string
	PriceMin    *float64
	PriceMax    *float64
	Statuses    []models.ListingStatus
	OrderBy     string
	Limit       int
	Offset      int
}

// ListingRepository defines the interface for listing data operations
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id uint) error
	// IncrementViews bumps the view counter. Lost updates under high
	// concurrency are tolerated.
	IncrementViews(ctx context.Context, id uint) error
	// UpdateStatus is a compare-and-swap on the current status. It returns
	// false when the stored status no longer matches from.
	UpdateStatus(ctx context.Context, id uint, from, to models.ListingStatus) (bool, error)
	// Count returns the unpaged match count for the filter.
	Count(ctx context.Context, q ListingQuery) (int64, error)
	// Find returns one page ordered by q.OrderBy.
	Find(ctx context.Context, q ListingQuery) ([]*models.Listing, error)
	// FindAll returns the whole filtered candidate set ordered by id, for
	// in-memory relevance ranking.
	FindAll(ctx context.Context, q ListingQuery) ([]*models.Listing, error)
}

// listingRepository implements ListingRepository
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(r.db.WithContext(ctx).Create(listing).Error)
}

func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Seller").
		First(&listing, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

func (r *listingRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&listings).Error
	return listings, translate(err)
}

func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(r.db.WithContext(ctx).Save(listing).Error)
}

func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(r.db.WithContext(ctx).Delete(&models.Listing{}, id).Error)
}

func (r *listingRepository) IncrementViews(ctx context.Context, id uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	return translate(r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error)
}

func (r *listingRepository) UpdateStatus(ctx context.Context, id uint, from, to models.ListingStatus) (bool, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	// Conditional update so two concurrent transitions cannot both win.
	res := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *listingRepository) Count(ctx context.Context, q ListingQuery) (int64, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Listing{}), q).
		Count(&count).Error
	return count, translate(err)
}

func (r *listingRepository) Find(ctx context.Context, q ListingQuery) ([]*models.Listing, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var listings []*models.Listing
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Listing{}), q).
		Preload("Category").
		Order(q.OrderBy).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&listings).Error
	if err != nil {
		return nil, translate(err)
	}
	return listings, nil
}

func (r *listingRepository) FindAll(ctx context.Context, q ListingQuery) ([]*models.Listing, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	var listings []*models.Listing
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Listing{}), q).
		Preload("Category").
		Order("id ASC").
		Find(&listings).Error
	if err != nil {
		return nil, translate(err)
	}
	return listings, nil
}

// applyFilter compiles the query into WHERE clauses. LOWER(...) LIKE keeps the
// text and location matches case-insensitive on both postgres and sqlite.
func (r *listingRepository) applyFilter(db *gorm.DB, q ListingQuery) *gorm.DB {
	if len(q.Terms) > 0 {
		text := db.Session(&gorm.Session{NewDB: true})
		for _, term := range q.Terms {
			like := "%" + term + "%"
			text = text.Or("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		db = db.Where(text)
	}
	if len(q.CategoryIDs) > 0 {
		db = db.Where("category_id IN ?", q.CategoryIDs)
	}
	if q.Location != "" {
		db = db.Where("LOWER(location) LIKE ?", "%"+q.Location+"%")
	}
	if q.PriceMin != nil {
		db = db.Where("price >= ?", *q.PriceMin)
	}
	if q.PriceMax != nil {
		db = db.Where("price <= ?", *q.PriceMax)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}
	return db
}
