package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/internal/config"
	"bazaar/internal/database"
	"bazaar/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a full server over an in-memory sqlite store with no
// Redis, the degraded-cache path.
func newTestServer(t *testing.T) (*Server, *gorm.DB, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Env:                 "test",
		Port:                "8480",
		JWTSecret:           "test-secret-key-0123456789abcdef0123",
		StoreTimeoutSeconds: 5,
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, db, app
}

// bearerFor issues a real token for the user so requests traverse the actual
// auth middleware.
func bearerFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func postJSON(t *testing.T, path string, payload any) *http.Request {
	return jsonRequest(t, http.MethodPost, path, payload)
}

func putJSON(t *testing.T, path string, payload any) *http.Request {
	return jsonRequest(t, http.MethodPut, path, payload)
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.NoError(t, json.Unmarshal(body, dest), "body: %s", string(body))
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	cat := &models.Category{Slug: slug, Name: slug}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedListing(t *testing.T, db *gorm.DB, sellerID, categoryID uint, title string, price float64) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:      title,
		Price:      price,
		CategoryID: categoryID,
		SellerID:   sellerID,
		Images:     []string{"img-1"},
		Status:     models.ListingStatusActive,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}
