package service

import (
	"context"

	"bazaar/internal/models"
	"bazaar/internal/repository"

	"gorm.io/gorm"
)

// Function-field stubs for each repository. Tests override only the fields
// they care about.

type listingRepoStub struct {
	createFn         func(context.Context, *models.Listing) error
	getByIDFn        func(context.Context, uint) (*models.Listing, error)
	getByIDsFn       func(context.Context, []uint) ([]*models.Listing, error)
	updateFn         func(context.Context, *models.Listing) error
	deleteFn         func(context.Context, uint) error
	incrementViewsFn func(context.Context, uint) error
	updateStatusFn   func(context.Context, uint, models.ListingStatus, models.ListingStatus) (bool, error)
	countFn          func(context.Context, repository.ListingQuery) (int64, error)
	findFn           func(context.Context, repository.ListingQuery) ([]*models.Listing, error)
	findAllFn        func(context.Context, repository.ListingQuery) ([]*models.Listing, error)
}

func (s *listingRepoStub) Create(ctx context.Context, l *models.Listing) error {
	return s.createFn(ctx, l)
}
func (s *listingRepoStub) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.getByIDFn(ctx, id)
}
func (s *listingRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]*models.Listing, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *listingRepoStub) Update(ctx context.Context, l *models.Listing) error {
	return s.updateFn(ctx, l)
}
func (s *listingRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *listingRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *listingRepoStub) UpdateStatus(ctx context.Context, id uint, from, to models.ListingStatus) (bool, error) {
	return s.updateStatusFn(ctx, id, from, to)
}
func (s *listingRepoStub) Count(ctx context.Context, q repository.ListingQuery) (int64, error) {
	return s.countFn(ctx, q)
}
func (s *listingRepoStub) Find(ctx context.Context, q repository.ListingQuery) ([]*models.Listing, error) {
	return s.findFn(ctx, q)
}
func (s *listingRepoStub) FindAll(ctx context.Context, q repository.ListingQuery) ([]*models.Listing, error) {
	return s.findAllFn(ctx, q)
}

func noopListingRepo() *listingRepoStub {
	return &listingRepoStub{
		createFn:  func(context.Context, *models.Listing) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Listing, error) { return &models.Listing{ID: id}, nil },
		getByIDsFn: func(context.Context, []uint) ([]*models.Listing, error) {
			return nil, nil
		},
		updateFn:         func(context.Context, *models.Listing) error { return nil },
		deleteFn:         func(context.Context, uint) error { return nil },
		incrementViewsFn: func(context.Context, uint) error { return nil },
		updateStatusFn: func(context.Context, uint, models.ListingStatus, models.ListingStatus) (bool, error) {
			return true, nil
		},
		countFn: func(context.Context, repository.ListingQuery) (int64, error) { return 0, nil },
		findFn: func(context.Context, repository.ListingQuery) ([]*models.Listing, error) {
			return nil, nil
		},
		findAllFn: func(context.Context, repository.ListingQuery) ([]*models.Listing, error) {
			return nil, nil
		},
	}
}

type categoryRepoStub struct {
	createFn      func(context.Context, *models.Category) error
	updateFn      func(context.Context, *models.Category) error
	getByIDFn     func(context.Context, uint) (*models.Category, error)
	getBySlugFn   func(context.Context, string) (*models.Category, error)
	listFn        func(context.Context) ([]*models.Category, error)
	getChildrenFn func(context.Context, []uint) ([]*models.Category, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, c *models.Category) error {
	return s.createFn(ctx, c)
}
func (s *categoryRepoStub) Update(ctx context.Context, c *models.Category) error {
	return s.updateFn(ctx, c)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]*models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetChildren(ctx context.Context, parentIDs []uint) ([]*models.Category, error) {
	return s.getChildrenFn(ctx, parentIDs)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(context.Context, *models.Category) error { return nil },
		updateFn: func(context.Context, *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id}, nil
		},
		getBySlugFn: func(context.Context, string) (*models.Category, error) {
			return nil, gorm.ErrRecordNotFound
		},
		listFn: func(context.Context) ([]*models.Category, error) { return nil, nil },
		getChildrenFn: func(context.Context, []uint) ([]*models.Category, error) {
			return nil, nil
		},
	}
}

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByIDsFn      func(context.Context, []uint) ([]*models.User, error)
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]*models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	return s.updateFn(ctx, u)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn: func(context.Context, string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		getByUsernameFn: func(context.Context, string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		getByIDsFn: func(context.Context, []uint) ([]*models.User, error) { return nil, nil },
		updateFn:   func(context.Context, *models.User) error { return nil },
	}
}

type messageRepoStub struct {
	createFn         func(context.Context, *models.Message) error
	getByIDFn        func(context.Context, uint) (*models.Message, error)
	listForUserFn    func(context.Context, uint) ([]*models.Message, error)
	threadFn         func(context.Context, uint, uint, uint) ([]*models.Message, error)
	markReadFn       func(context.Context, uint) error
	markThreadReadFn func(context.Context, uint, uint, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}
func (s *messageRepoStub) ListForUser(ctx context.Context, userID uint) ([]*models.Message, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *messageRepoStub) Thread(ctx context.Context, listingID, userA, userB uint) ([]*models.Message, error) {
	return s.threadFn(ctx, listingID, userA, userB)
}
func (s *messageRepoStub) MarkRead(ctx context.Context, id uint) error {
	return s.markReadFn(ctx, id)
}
func (s *messageRepoStub) MarkThreadRead(ctx context.Context, listingID, receiverID, senderID uint) (int64, error) {
	return s.markThreadReadFn(ctx, listingID, receiverID, senderID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn: func(context.Context, *models.Message) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Message, error) {
			return &models.Message{ID: id}, nil
		},
		listForUserFn: func(context.Context, uint) ([]*models.Message, error) { return nil, nil },
		threadFn: func(context.Context, uint, uint, uint) ([]*models.Message, error) {
			return nil, nil
		},
		markReadFn:       func(context.Context, uint) error { return nil },
		markThreadReadFn: func(context.Context, uint, uint, uint) (int64, error) { return 0, nil },
	}
}

type favoriteRepoStub struct {
	addFn        func(context.Context, uint, uint) (bool, error)
	removeFn     func(context.Context, uint, uint) (bool, error)
	listByUserFn func(context.Context, uint) ([]*models.Favorite, error)
}

func (s *favoriteRepoStub) Add(ctx context.Context, userID, listingID uint) (bool, error) {
	return s.addFn(ctx, userID, listingID)
}
func (s *favoriteRepoStub) Remove(ctx context.Context, userID, listingID uint) (bool, error) {
	return s.removeFn(ctx, userID, listingID)
}
func (s *favoriteRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.Favorite, error) {
	return s.listByUserFn(ctx, userID)
}

func noopFavoriteRepo() *favoriteRepoStub {
	return &favoriteRepoStub{
		addFn:        func(context.Context, uint, uint) (bool, error) { return true, nil },
		removeFn:     func(context.Context, uint, uint) (bool, error) { return true, nil },
		listByUserFn: func(context.Context, uint) ([]*models.Favorite, error) { return nil, nil },
	}
}

// selfDescendants resolves every category filter to just itself.
func selfDescendants(_ context.Context, categoryID uint) ([]uint, error) {
	return []uint{categoryID}, nil
}
