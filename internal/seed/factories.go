// Package seed provides helpers to create demo and test data for the
// marketplace database. Development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"bazaar/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the plaintext password every seeded account gets.
const DemoPassword = "SeededPass12!@"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand

	// bcrypt is slow at default cost; every demo account shares one hash.
	passwordHash string
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}
	return &Factory{
		db:           db,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}, nil
}

// CreateUser persists a user with generated profile data.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(fmt.Sprintf("%s-%s", gofakeit.Username(), gofakeit.DigitN(3)))
	user := &models.User{
		Username: username,
		Email:    strings.ToLower(fmt.Sprintf("%s@%s", username, gofakeit.DomainName())),
		Password: f.passwordHash,
		Location: gofakeit.City(),
		Phone:    gofakeit.Phone(),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// CreateListing persists a listing for the seller in the given category.
// CreatedAt is backdated up to maxDays so relevance ranking has a spread to
// work with.
func (f *Factory) CreateListing(seller *models.User, categoryID uint, maxDays int, overrides ...func(*models.Listing)) (*models.Listing, error) {
	if maxDays <= 0 {
		maxDays = 60
	}
	imageCount := 1 + f.rand.Intn(4)
	images := make([]string, 0, imageCount)
	for i := 0; i < imageCount; i++ {
		images = append(images, fmt.Sprintf("https://picsum.photos/seed/%s/800/600", uuid.NewString()))
	}

	listing := &models.Listing{
		Title:       gofakeit.ProductName(),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Price:       float64(5+f.rand.Intn(2000)) + 0.99,
		CategoryID:  categoryID,
		SellerID:    seller.ID,
		Images:      images,
		Location:    seller.Location,
		Status:      models.ListingStatusActive,
		Featured:    f.rand.Intn(10) == 0,
	}
	for _, override := range overrides {
		override(listing)
	}
	if err := f.db.Create(listing).Error; err != nil {
		return nil, fmt.Errorf("creating listing: %w", err)
	}

	backdate := time.Now().
		Add(-time.Duration(f.rand.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(f.rand.Intn(60)) * time.Minute)
	if err := f.db.Model(listing).UpdateColumn("created_at", backdate).Error; err != nil {
		return nil, fmt.Errorf("backdating listing: %w", err)
	}
	listing.CreatedAt = backdate
	return listing, nil
}

// CreateThread persists a short back-and-forth between buyer and seller about
// the listing. The last message from the seller stays unread.
func (f *Factory) CreateThread(listing *models.Listing, buyer *models.User, messageCount int) error {
	if messageCount <= 0 {
		messageCount = 2 + f.rand.Intn(4)
	}
	openers := []string{
		"Hi, is this still available?",
		"Would you take a lower price?",
		"Can I pick this up this weekend?",
		"What condition is it in?",
	}

	at := listing.CreatedAt.Add(time.Duration(1+f.rand.Intn(48)) * time.Hour)
	for i := 0; i < messageCount; i++ {
		msg := &models.Message{
			ListingID: listing.ID,
			Content:   gofakeit.Sentence(6 + f.rand.Intn(10)),
		}
		if i == 0 {
			msg.Content = openers[f.rand.Intn(len(openers))]
		}
		if i%2 == 0 {
			msg.SenderID, msg.ReceiverID = buyer.ID, listing.SellerID
		} else {
			msg.SenderID, msg.ReceiverID = listing.SellerID, buyer.ID
		}
		// Everything before the final message has been read.
		msg.IsRead = i < messageCount-1

		if err := f.db.Create(msg).Error; err != nil {
			return fmt.Errorf("creating message: %w", err)
		}
		if err := f.db.Model(msg).UpdateColumn("created_at", at).Error; err != nil {
			return fmt.Errorf("backdating message: %w", err)
		}
		at = at.Add(time.Duration(2+f.rand.Intn(120)) * time.Minute)
	}
	return nil
}

// CreateFavorite persists one favorite, ignoring duplicates.
func (f *Factory) CreateFavorite(userID, listingID uint) error {
	fav := &models.Favorite{UserID: userID, ListingID: listingID}
	err := f.db.Create(fav).Error
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return nil
	}
	return err
}
