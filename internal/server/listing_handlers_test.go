package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchListingsFiltersAndPaginates(t *testing.T) {
	_, db, app := newTestServer(t)

	seller := seedUser(t, db, "seller")
	cat := seedCategory(t, db, "bikes")
	seedListing(t, db, seller.ID, cat.ID, "Road bike", 300)
	seedListing(t, db, seller.ID, cat.ID, "Mountain bike", 450)
	sold := seedListing(t, db, seller.ID, cat.ID, "Old bike", 100)
	require.NoError(t, db.Model(sold).Update("status", models.ListingStatusSold).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/listings?q=bike&sort=price_asc", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.SearchResult
	decodeBody(t, resp, &result)
	// Sold listing excluded by the default active-only filter.
	require.Len(t, result.Items, 2)
	assert.EqualValues(t, 2, result.Total)
	assert.Equal(t, "Road bike", result.Items[0].Title)
	assert.Equal(t, "Mountain bike", result.Items[1].Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/listings?page_size=1&page=2&sort=price_asc", nil))
	require.NoError(t, err)
	decodeBody(t, resp, &result)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Mountain bike", result.Items[0].Title)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 1, result.PageSize)
}

func TestSearchListingsExpandsCategorySubtree(t *testing.T) {
	s, db, app := newTestServer(t)

	seller := seedUser(t, db, "seller")
	electronics := seedCategory(t, db, "electronics")
	phones := &models.Category{Slug: "phones", Name: "Phones", ParentID: &electronics.ID}
	require.NoError(t, db.Create(phones).Error)
	listing := seedListing(t, db, seller.ID, phones.ID, "Fairphone 5", 100)

	url := fmt.Sprintf("/api/listings?category=%d&price_max=200", electronics.ID)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.SearchResult
	decodeBody(t, resp, &result)
	require.Len(t, result.Items, 1)
	assert.Equal(t, listing.ID, result.Items[0].ID)

	// Sold listings drop out of the default active-only view.
	req := postJSON(t, fmt.Sprintf("/api/listings/%d/status", listing.ID), map[string]string{"status": "sold"})
	req.Header.Set("Authorization", bearerFor(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	decodeBody(t, resp, &result)
	assert.Empty(t, result.Items)
	assert.Zero(t, result.Total)

	// Unknown category ids are caller errors, not empty pages.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/listings?category=9999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchListingsRejectsInvertedPriceRange(t *testing.T) {
	_, _, app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/listings?price_min=100&price_max=50", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetListingIgnoresBadOptionalToken(t *testing.T) {
	s, db, app := newTestServer(t)

	seller := seedUser(t, db, "seller")
	cat := seedCategory(t, db, "bikes")
	seedListing(t, db, seller.ID, cat.ID, "Road bike", 300)

	// Public reads resolve identity when offered but never reject on it.
	req := httptest.NewRequest(http.MethodGet, "/api/listings/1", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/listings/1", nil)
	req.Header.Set("Authorization", bearerFor(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetListingAndMissing(t *testing.T) {
	_, db, app := newTestServer(t)

	seller := seedUser(t, db, "seller")
	cat := seedCategory(t, db, "bikes")
	listing := seedListing(t, db, seller.ID, cat.ID, "Road bike", 300)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/listings/1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Listing
	decodeBody(t, resp, &got)
	assert.Equal(t, listing.ID, got.ID)
	assert.Equal(t, "Road bike", got.Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/listings/9999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/listings/not-a-number", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateListingRequiresAuthAndValidates(t *testing.T) {
	s, db, app := newTestServer(t)

	seller := seedUser(t, db, "seller")
	cat := seedCategory(t, db, "bikes")

	payload := map[string]any{
		"title":       "Gravel bike",
		"description": "Barely ridden",
		"price":       520.0,
		"category_id": cat.ID,
		"images":      []string{"img-1", "img-2"},
		"location":    "Lisbon",
	}

	resp, err := app.Test(postJSON(t, "/api/listings", payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := postJSON(t, "/api/listings", payload)
	req.Header.Set("Authorization", bearerFor(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Listing
	decodeBody(t, resp, &created)
	assert.Equal(t, models.ListingStatusActive, created.Status)
	assert.Equal(t, seller.ID, created.SellerID)

	payload["images"] = []string{}
	req = postJSON(t, "/api/listings", payload)
	req.Header.Set("Authorization", bearerFor(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChangeListingStatusOwnership(t *testing.T) {
	s, db, app := newTestServer(t)

	seller := seedUser(t, db, "seller")
	other := seedUser(t, db, "other")
	cat := seedCategory(t, db, "bikes")
	listing := seedListing(t, db, seller.ID, cat.ID, "Road bike", 300)

	req := postJSON(t, "/api/listings/1/status", map[string]string{"status": "sold"})
	req.Header.Set("Authorization", bearerFor(t, s, other))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = postJSON(t, "/api/listings/1/status", map[string]string{"status": "sold"})
	req.Header.Set("Authorization", bearerFor(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Listing
	decodeBody(t, resp, &got)
	assert.Equal(t, models.ListingStatusSold, got.Status)

	// Sold is terminal.
	req = postJSON(t, "/api/listings/1/status", map[string]string{"status": "active"})
	req.Header.Set("Authorization", bearerFor(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var stored models.Listing
	require.NoError(t, db.First(&stored, listing.ID).Error)
	assert.Equal(t, models.ListingStatusSold, stored.Status)
}

func TestDeleteListingOwnerOnly(t *testing.T) {
	s, db, app := newTestServer(t)

	seller := seedUser(t, db, "seller")
	other := seedUser(t, db, "other")
	cat := seedCategory(t, db, "bikes")
	listing := seedListing(t, db, seller.ID, cat.ID, "Road bike", 300)

	req := httptest.NewRequest(http.MethodDelete, "/api/listings/1", nil)
	req.Header.Set("Authorization", bearerFor(t, s, other))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/api/listings/1", nil)
	req.Header.Set("Authorization", bearerFor(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Listing{}).Where("id = ?", listing.ID).Count(&count).Error)
	assert.Zero(t, count)
}
