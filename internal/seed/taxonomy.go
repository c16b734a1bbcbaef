package seed

import (
	"bazaar/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInCategory is a permanent catalog category. Children reference their
// parent by slug so the tree can be declared flat.
type BuiltInCategory struct {
	Slug       string
	Name       string
	Icon       string
	ParentSlug string
}

// BuiltInCategories defines the standard marketplace taxonomy. Parents are
// listed before their children so a single pass can resolve ParentSlug.
var BuiltInCategories = []BuiltInCategory{
	{Slug: "vehicles", Name: "Vehicles", Icon: "car"},
	{Slug: "cars", Name: "Cars", ParentSlug: "vehicles"},
	{Slug: "motorcycles", Name: "Motorcycles", ParentSlug: "vehicles"},
	{Slug: "bicycles", Name: "Bicycles", ParentSlug: "vehicles"},
	{Slug: "electronics", Name: "Electronics", Icon: "cpu"},
	{Slug: "phones", Name: "Phones", ParentSlug: "electronics"},
	{Slug: "computers", Name: "Computers", ParentSlug: "electronics"},
	{Slug: "audio", Name: "Audio", ParentSlug: "electronics"},
	{Slug: "home-garden", Name: "Home & Garden", Icon: "home"},
	{Slug: "furniture", Name: "Furniture", ParentSlug: "home-garden"},
	{Slug: "appliances", Name: "Appliances", ParentSlug: "home-garden"},
	{Slug: "garden", Name: "Garden", ParentSlug: "home-garden"},
	{Slug: "fashion", Name: "Fashion", Icon: "shirt"},
	{Slug: "clothing", Name: "Clothing", ParentSlug: "fashion"},
	{Slug: "shoes", Name: "Shoes", ParentSlug: "fashion"},
	{Slug: "sports-leisure", Name: "Sports & Leisure", Icon: "dumbbell"},
	{Slug: "fitness", Name: "Fitness", ParentSlug: "sports-leisure"},
	{Slug: "outdoor", Name: "Outdoor", ParentSlug: "sports-leisure"},
	{Slug: "hobbies", Name: "Hobbies", Icon: "palette"},
	{Slug: "books-media", Name: "Books & Media", ParentSlug: "hobbies"},
	{Slug: "collectibles", Name: "Collectibles", ParentSlug: "hobbies"},
	{Slug: "instruments", Name: "Instruments", ParentSlug: "hobbies"},
}

// Categories upserts the built-in taxonomy. Safe to run on every boot: slugs
// are stable identities, names and icons follow the current definition.
func Categories(db *gorm.DB) error {
	idBySlug := map[string]uint{}

	for _, item := range BuiltInCategories {
		category := models.Category{
			Slug: item.Slug,
			Name: item.Name,
			Icon: item.Icon,
		}
		if item.ParentSlug != "" {
			parentID, ok := idBySlug[item.ParentSlug]
			if !ok {
				// Parent not declared before the child; resolve from the store.
				var parent models.Category
				if err := db.Where("slug = ?", item.ParentSlug).First(&parent).Error; err != nil {
					return err
				}
				parentID = parent.ID
			}
			category.ParentID = &parentID
		}

		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "parent_id", "updated_at"}),
		}).Create(&category).Error; err != nil {
			return err
		}

		if category.ID == 0 {
			if err := db.Where("slug = ?", item.Slug).First(&category).Error; err != nil {
				return err
			}
		}
		idBySlug[item.Slug] = category.ID
	}
	return nil
}
