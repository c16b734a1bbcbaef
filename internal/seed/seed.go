package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// Options configures a marketplace seeding run.
type Options struct {
	NumUsers    int
	NumListings int
	MaxDays     int // backdating window for listings
}

// Seeder populates the database with demo marketplace data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder for the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll removes all marketplace data. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []interface{}{
		&models.Message{},
		&models.Favorite{},
		&models.Listing{},
		&models.Category{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	return nil
}

// SeedMarketplace creates users, listings spread across the built-in
// taxonomy, favorites, and buyer/seller threads. Returns the created users.
func (s *Seeder) SeedMarketplace(opts Options) ([]*models.User, error) {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumListings <= 0 {
		opts.NumListings = 100
	}

	if err := Categories(s.db); err != nil {
		return nil, fmt.Errorf("seeding taxonomy: %w", err)
	}

	var leaves []models.Category
	if err := s.db.Where("parent_id IS NOT NULL").Find(&leaves).Error; err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	if len(leaves) == 0 {
		return nil, fmt.Errorf("taxonomy has no leaf categories")
	}

	factory, err := NewFactory(s.db)
	if err != nil {
		return nil, err
	}

	log.Printf("Creating %d users...", opts.NumUsers)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	log.Printf("Creating %d listings...", opts.NumListings)
	listings := make([]*models.Listing, 0, opts.NumListings)
	for i := 0; i < opts.NumListings; i++ {
		seller := users[s.rand.Intn(len(users))]
		category := leaves[s.rand.Intn(len(leaves))]
		listing, err := factory.CreateListing(seller, category.ID, opts.MaxDays)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	// A minority of listings have already closed.
	for _, listing := range listings {
		if s.rand.Intn(10) != 0 {
			continue
		}
		next := models.ListingStatusSold
		if s.rand.Intn(2) == 0 {
			next = models.ListingStatusExpired
		}
		if err := s.db.Model(listing).Update("status", next).Error; err != nil {
			return nil, fmt.Errorf("closing listing: %w", err)
		}
	}

	log.Println("Creating favorites and conversations...")
	for _, listing := range listings {
		for attempts := s.rand.Intn(4); attempts > 0; attempts-- {
			buyer := users[s.rand.Intn(len(users))]
			if buyer.ID == listing.SellerID {
				continue
			}
			if err := factory.CreateFavorite(buyer.ID, listing.ID); err != nil {
				return nil, err
			}
		}

		if s.rand.Intn(3) != 0 {
			continue
		}
		buyer := users[s.rand.Intn(len(users))]
		if buyer.ID == listing.SellerID {
			continue
		}
		if err := factory.CreateThread(listing, buyer, 0); err != nil {
			return nil, err
		}
	}

	log.Printf("Seeded %d users, %d listings.", len(users), len(listings))
	return users, nil
}
