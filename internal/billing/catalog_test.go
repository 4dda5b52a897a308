package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

func testBranch() *models.Branch {
	deleted := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Branch{
		ID:   "branch-1",
		Name: "Downtown",
		Categories: []models.Category{
			{
				ID:   "hair",
				Name: "Haircut",
				Subcategories: []models.Subcategory{
					{ID: "men", CategoryID: "hair", Name: "Men", Price: 100, GST: 18},
					{ID: "women", CategoryID: "hair", Name: "Women", Price: 250, GST: 18},
					{ID: "kids", CategoryID: "hair", Name: "Kids", Price: 60, DeletedAt: &deleted},
				},
			},
			{
				ID:   "spa",
				Name: "Spa",
				Subcategories: []models.Subcategory{
					{ID: "massage", CategoryID: "spa", Name: "Massage", Price: 500, GST: 12},
				},
			},
			{
				ID:        "old",
				Name:      "Retired",
				DeletedAt: &deleted,
				Subcategories: []models.Subcategory{
					{ID: "legacy", CategoryID: "old", Name: "Legacy", Price: 10},
				},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	branch := testBranch()

	tests := []struct {
		name          string
		categoryID    string
		subcategoryID string
		wantErr       error
	}{
		{"live entry", "hair", "women", nil},
		{"unknown category", "nails", "men", ErrCategoryNotFound},
		{"deleted category", "old", "legacy", ErrCategoryNotFound},
		{"unknown subcategory", "hair", "beard", ErrSubcategoryNotFound},
		{"deleted subcategory", "hair", "kids", ErrSubcategoryNotFound},
		{"subcategory of another category", "spa", "men", ErrSubcategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, subcategory, err := Resolve(branch, tt.categoryID, tt.subcategoryID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "not found")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.categoryID, category.ID)
			assert.Equal(t, tt.subcategoryID, subcategory.ID)
		})
	}
}

func TestCatalogNames(t *testing.T) {
	branch := testBranch()
	branch.Categories[0].Name = "Hair Styling"

	tests := []struct {
		name    string
		item    models.LineItem
		wantCat string
		wantSub string
	}{
		{
			name:    "live names win",
			item:    models.LineItem{CategoryID: "hair", SubcategoryID: "men", CategoryName: "Haircut", SubcategoryName: "Gents"},
			wantCat: "Hair Styling",
			wantSub: "Men",
		},
		{
			name:    "stored names when catalog entry is gone",
			item:    models.LineItem{CategoryID: "nails", SubcategoryID: "gel", CategoryName: "Nails", SubcategoryName: "Gel"},
			wantCat: "Nails",
			wantSub: "Gel",
		},
		{
			name:    "unknown when nothing is known",
			item:    models.LineItem{CategoryID: "nails", SubcategoryID: "gel"},
			wantCat: models.UnknownName,
			wantSub: models.UnknownName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, sub := CatalogNames(branch, tt.item)
			assert.Equal(t, tt.wantCat, cat)
			assert.Equal(t, tt.wantSub, sub)
		})
	}
}
