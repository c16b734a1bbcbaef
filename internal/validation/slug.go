package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var categorySlugRegex = regexp.MustCompile(`^[a-z0-9-]{2,40}$`)

// Slugs that would collide with API routes or reserved pages.
var reservedCategorySlugs = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"auth":          {},
	"categories":    {},
	"chat":          {},
	"conversations": {},
	"favorites":     {},
	"listings":      {},
	"login":         {},
	"messages":      {},
	"metrics":       {},
	"search":        {},
	"settings":      {},
	"signup":        {},
	"users":         {},
}

// ValidateCategorySlug validates category slug format and reserved names.
func ValidateCategorySlug(slug string) error {
	if !categorySlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 2-40 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedCategorySlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}
