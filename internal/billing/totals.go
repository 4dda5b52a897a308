package billing

import (
	"github.com/shopspring/decimal"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// Totals are the invoice-level sums of a set of priced line items
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"totalDiscount"`
	TotalGST      float64 `json:"totalGst"`
	GrandTotal    float64 `json:"grandTotal"`
}

// AggregateTotals sums priced line items. An empty list yields zero totals.
func AggregateTotals(items []models.LineItem) Totals {
	subtotal := decimal.Zero
	discount := decimal.Zero
	gst := decimal.Zero

	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		discount = discount.Add(decimal.NewFromFloat(item.Discount))
		gst = gst.Add(decimal.NewFromFloat(item.GST))
	}

	return Totals{
		Subtotal:      subtotal.InexactFloat64(),
		TotalDiscount: discount.InexactFloat64(),
		TotalGST:      gst.InexactFloat64(),
		GrandTotal:    subtotal.Sub(discount).Add(gst).InexactFloat64(),
	}
}

// Apply copies the totals onto an invoice
func (t Totals) Apply(inv *models.Invoice) {
	inv.Subtotal = t.Subtotal
	inv.TotalDiscount = t.TotalDiscount
	inv.TotalGST = t.TotalGST
	inv.GrandTotal = t.GrandTotal
}
