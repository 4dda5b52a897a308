package billing

import (
	"sort"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

const dayLayout = "2006-01-02"

// SalesByDay groups invoice grand totals by calendar day, oldest first
func SalesByDay(invoices []models.Invoice) []models.DailySales {
	type day struct {
		total sum
		count int
	}
	days := make(map[string]*day)
	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() {
			continue
		}
		key := inv.Date.Format(dayLayout)
		d, ok := days[key]
		if !ok {
			d = &day{}
			days[key] = d
		}
		d.total.add(inv.GrandTotal)
		d.count++
	}

	result := make([]models.DailySales, 0, len(days))
	for key, d := range days {
		result = append(result, models.DailySales{Date: key, TotalSales: d.total.value(), InvoiceCount: d.count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}

// SalesByProduct groups line items by subcategory, ordered by first sale
func SalesByProduct(invoices []models.Invoice) []models.ProductSales {
	type product struct {
		entry  models.ProductSales
		amount sum
	}
	byID := make(map[string]*product)
	var order []*product
	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() {
			continue
		}
		for _, item := range inv.Items {
			p, ok := byID[item.SubcategoryID]
			if !ok {
				p = &product{entry: models.ProductSales{
					SubcategoryID:   item.SubcategoryID,
					ProductName:     orUnknown(item.Name),
					CategoryName:    orUnknown(item.CategoryName),
					SubcategoryName: orUnknown(item.SubcategoryName),
				}}
				byID[item.SubcategoryID] = p
				order = append(order, p)
			}
			p.entry.TotalQuantity += item.Quantity
			p.amount.add(item.Gross())
		}
	}

	result := make([]models.ProductSales, 0, len(order))
	for _, p := range order {
		p.entry.TotalAmount = p.amount.value()
		result = append(result, p.entry)
	}
	return result
}

// SummarizeInvoices computes count, amount and payment status breakdown of invoices
func SummarizeInvoices(invoices []models.Invoice) models.InvoiceSummary {
	var total sum
	var summary models.InvoiceSummary
	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() {
			continue
		}
		summary.TotalInvoices++
		total.add(inv.GrandTotal)
		switch inv.PaymentStatus {
		case models.PaymentStatusPaid:
			summary.PaidInvoices++
		case models.PaymentStatusPartiallyPaid:
			summary.PartiallyPaidInvoices++
		default:
			summary.PendingInvoices++
		}
	}
	summary.TotalAmount = total.value()
	summary.AvgInvoiceValue = SafeAverage(summary.TotalAmount, summary.TotalInvoices)
	return summary
}

// DetailInvoices flattens invoices into report rows, newest first.
// branchNames resolves branch ids to display names. Item counts are line counts and
// line amounts are price times quantity, before discount and GST.
func DetailInvoices(invoices []models.Invoice, branchNames map[string]string) models.DetailedInvoiceReport {
	report := models.DetailedInvoiceReport{Success: true, Invoices: make([]models.DetailedInvoiceRow, 0, len(invoices))}
	var total sum
	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() {
			continue
		}
		row := models.DetailedInvoiceRow{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Date:          inv.Date,
			Branch:        orUnknown(branchNames[inv.BranchID]),
			Client:        orUnknown(inv.Client.Name),
			PaymentStatus: inv.PaymentStatus,
			PaymentMethod: inv.PaymentMethod,
			Subtotal:      inv.Subtotal,
			TotalDiscount: inv.TotalDiscount,
			TotalGST:      inv.TotalGST,
			GrandTotal:    inv.GrandTotal,
			Items:         make([]models.DetailedInvoiceItem, 0, len(inv.Items)),
			ItemCount:     len(inv.Items),
		}
		for j := range inv.Items {
			item := &inv.Items[j]
			category := item.CategoryName
			if category == "" {
				category = models.UncategorizedName
			}
			row.Items = append(row.Items, models.DetailedInvoiceItem{
				Name:     item.Name,
				Category: category,
				Quantity: item.Quantity,
				Price:    item.Price,
				Amount:   Round2(item.Gross()),
				Discount: item.Discount,
				GST:      item.GST,
			})
		}
		report.Invoices = append(report.Invoices, row)

		report.Summary.TotalInvoices++
		report.Summary.TotalItems += row.ItemCount
		total.add(inv.GrandTotal)
		switch inv.PaymentStatus {
		case models.PaymentStatusPaid:
			report.Summary.PaidInvoices++
		case models.PaymentStatusPending:
			report.Summary.PendingInvoices++
		}
	}
	report.Summary.TotalAmount = total.value()
	sort.SliceStable(report.Invoices, func(i, j int) bool {
		return report.Invoices[i].Date.After(report.Invoices[j].Date)
	})
	return report
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownName
	}
	return s
}
