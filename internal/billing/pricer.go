package billing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// LineItemRequest is a requested invoice line before pricing.
//
// Discount and GST are absolute amounts; when set they are used as-is. When they are
// nil the amounts are derived from DiscountPercentage (floored by the client's standing
// discount) and GSTPercentage (defaulting to the subcategory's GST rate).
type LineItemRequest struct {
	CategoryID         string   `json:"categoryId" validate:"required"`
	SubcategoryID      string   `json:"subcategoryId" validate:"required"`
	Name               string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Description        string   `json:"description,omitempty"`
	Quantity           *int     `json:"quantity,omitempty"`
	UnitPrice          *float64 `json:"price,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Discount           *float64 `json:"discount,omitempty"`
	GSTPercentage      *float64 `json:"gstPercentage,omitempty"`
	GST                *float64 `json:"gst,omitempty"`
}

// PriceLineItem computes a priced line item for a resolved catalog entry.
// The result always satisfies FinalAmount = Price*Quantity - Discount + GST and is never clamped.
func PriceLineItem(category *models.Category, subcategory *models.Subcategory, req LineItemRequest, client *models.Client) (models.LineItem, error) {
	quantity, err := resolveQuantity(req.Quantity)
	if err != nil {
		return models.LineItem{}, err
	}

	unitPrice := subcategory.Price
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	if !validAmount(unitPrice) {
		return models.LineItem{}, &ItemError{Field: "price", Err: ErrInvalidLineItem}
	}

	overrides := []struct {
		field string
		value *float64
	}{
		{"discount", req.Discount},
		{"gst", req.GST},
		{"discountPercentage", req.DiscountPercentage},
		{"gstPercentage", req.GSTPercentage},
	}
	for _, o := range overrides {
		if o.value != nil && !validAmount(*o.value) {
			return models.LineItem{}, &ItemError{Field: o.field, Err: ErrInvalidLineItem}
		}
	}

	gross := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))

	var discount decimal.Decimal
	if req.Discount != nil {
		discount = decimal.NewFromFloat(*req.Discount)
	} else {
		discount = percentOf(gross, EffectiveDiscountPercent(req.DiscountPercentage, client))
	}

	var gst decimal.Decimal
	if req.GST != nil {
		gst = decimal.NewFromFloat(*req.GST)
	} else {
		rate := subcategory.GST
		if req.GSTPercentage != nil {
			rate = *req.GSTPercentage
		}
		gst = percentOf(gross.Sub(discount), rate)
	}

	discount = discount.Round(2)
	gst = gst.Round(2)
	final := gross.Sub(discount).Add(gst)

	name := req.Name
	if name == "" {
		name = subcategory.Name
	}
	description := req.Description
	if description == "" {
		description = subcategory.Description
	}

	return models.LineItem{
		CategoryID:      category.ID,
		SubcategoryID:   subcategory.ID,
		Name:            name,
		Description:     description,
		Quantity:        quantity,
		Price:           unitPrice,
		Discount:        discount.InexactFloat64(),
		GST:             gst.InexactFloat64(),
		FinalAmount:     final.InexactFloat64(),
		CategoryName:    category.Name,
		SubcategoryName: subcategory.Name,
	}, nil
}

// EffectiveDiscountPercent compares an item override with the client's standing discount
// and returns the larger one. The two are never summed.
func EffectiveDiscountPercent(override *float64, client *models.Client) float64 {
	requested := 0.0
	if override != nil {
		requested = *override
	}
	standing := 0.0
	if client != nil {
		standing = client.StandingDiscount()
	}
	return math.Max(requested, standing)
}

func resolveQuantity(q *int) (int, error) {
	if q == nil || *q == 0 {
		return 1, nil
	}
	if *q < 0 {
		return 0, ErrInvalidQuantity
	}
	return *q, nil
}

func percentOf(base decimal.Decimal, percent float64) decimal.Decimal {
	if percent == 0 {
		return decimal.Zero
	}
	return base.Mul(decimal.NewFromFloat(percent)).Div(hundred)
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
