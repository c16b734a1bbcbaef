package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ListingKeyPrefix     = "listing:%d"
	DescendantsKeyPrefix = "category:%d:descendants"
	UserKeyPrefix        = "user:%d"
)

const (
	// ListingTTL is short so the cached view counter never lags far behind.
	ListingTTL     = 30 * time.Second
	DescendantsTTL = 10 * time.Minute
	UserTTL        = 5 * time.Minute
)

func ListingKey(listingID uint) string {
	return fmt.Sprintf(ListingKeyPrefix, listingID)
}

func DescendantsKey(categoryID uint) string {
	return fmt.Sprintf(DescendantsKeyPrefix, categoryID)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateListing(ctx context.Context, listingID uint) {
	Invalidate(ctx, ListingKey(listingID))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateDescendants drops the cached subtree expansion for every category
// on the ancestor chain of a mutated node (the node included). The chain is
// supplied by the category service, which already walked it for cycle checks.
func InvalidateDescendants(ctx context.Context, categoryIDs []uint) {
	for _, id := range categoryIDs {
		Invalidate(ctx, DescendantsKey(id))
	}
}
