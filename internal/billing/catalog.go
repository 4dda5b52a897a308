package billing

import (
	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// Resolve finds the live catalog entry for a category/subcategory pair within a branch.
// Soft-deleted entries are treated as missing.
func Resolve(branch *models.Branch, categoryID, subcategoryID string) (*models.Category, *models.Subcategory, error) {
	category, ok := branch.Category(categoryID)
	if !ok || category.IsDeleted() {
		return nil, nil, &LookupError{Err: ErrCategoryNotFound, ID: categoryID}
	}

	subcategory, ok := category.Subcategory(subcategoryID)
	if !ok || subcategory.IsDeleted() {
		return nil, nil, &LookupError{Err: ErrSubcategoryNotFound, ID: subcategoryID}
	}

	return category, subcategory, nil
}

// CatalogNames returns the current category and subcategory names for a stored line item,
// falling back to the names stamped at creation and then to "Unknown".
func CatalogNames(branch *models.Branch, item models.LineItem) (string, string) {
	categoryName := item.CategoryName
	subcategoryName := item.SubcategoryName

	if category, ok := branch.Category(item.CategoryID); ok {
		categoryName = category.Name
		if sub, ok := category.Subcategory(item.SubcategoryID); ok {
			subcategoryName = sub.Name
		}
	}

	if categoryName == "" {
		categoryName = models.UnknownName
	}
	if subcategoryName == "" {
		subcategoryName = models.UnknownName
	}
	return categoryName, subcategoryName
}

// DiscountedPrice is the price a client pays for a catalog entry before GST
func DiscountedPrice(price float64, client *models.Client) float64 {
	discount := client.StandingDiscount()
	if discount <= 0 {
		return price
	}
	return Round2(price * (1 - discount/100))
}
