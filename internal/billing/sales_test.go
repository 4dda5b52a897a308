package billing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

func salesInvoices() []models.Invoice {
	deleted := testNow
	return []models.Invoice{
		{
			ID: "1", BranchID: "b1", InvoiceNumber: "DOW-00001", Date: day(2024, 3, 12).Add(9 * time.Hour), GrandTotal: 118,
			PaymentStatus: models.PaymentStatusPaid, Client: models.ClientSnapshot{Name: "Asha"},
			Items: []models.LineItem{
				{SubcategoryID: "men", Name: "Men", CategoryName: "Haircut", SubcategoryName: "Men", Quantity: 1, Price: 100, GST: 18, FinalAmount: 118},
			},
		},
		{
			ID: "2", BranchID: "b1", InvoiceNumber: "DOW-00002", Date: day(2024, 3, 12).Add(18 * time.Hour), GrandTotal: 236,
			PaymentStatus: models.PaymentStatusPending,
			Items: []models.LineItem{
				{SubcategoryID: "men", Name: "Men", CategoryName: "Haircut", SubcategoryName: "Men", Quantity: 2, Price: 100, GST: 36, FinalAmount: 236},
			},
		},
		{
			ID: "3", BranchID: "b2", InvoiceNumber: "UPT-00001", Date: day(2024, 3, 10), GrandTotal: 500,
			PaymentStatus: models.PaymentStatusPartiallyPaid,
			Items: []models.LineItem{
				{SubcategoryID: "massage", Name: "Massage", CategoryName: "Spa", SubcategoryName: "Massage", Quantity: 1, Price: 500, FinalAmount: 500},
			},
		},
		{ID: "4", Date: testNow, GrandTotal: 1000, DeletedAt: &deleted},
	}
}

func TestSalesByDay(t *testing.T) {
	want := []models.DailySales{
		{Date: "2024-03-10", TotalSales: 500, InvoiceCount: 1},
		{Date: "2024-03-12", TotalSales: 354, InvoiceCount: 2},
	}
	if diff := cmp.Diff(want, SalesByDay(salesInvoices())); diff != "" {
		t.Errorf("daily sales mismatch (-want +got):\n%s", diff)
	}
}

func TestSalesByProduct(t *testing.T) {
	want := []models.ProductSales{
		{SubcategoryID: "men", ProductName: "Men", CategoryName: "Haircut", SubcategoryName: "Men", TotalQuantity: 3, TotalAmount: 300},
		{SubcategoryID: "massage", ProductName: "Massage", CategoryName: "Spa", SubcategoryName: "Massage", TotalQuantity: 1, TotalAmount: 500},
	}
	if diff := cmp.Diff(want, SalesByProduct(salesInvoices())); diff != "" {
		t.Errorf("product sales mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeInvoices(t *testing.T) {
	summary := SummarizeInvoices(salesInvoices())
	assert.Equal(t, models.InvoiceSummary{
		TotalInvoices:         3,
		TotalAmount:           854,
		AvgInvoiceValue:       284.67,
		PaidInvoices:          1,
		PendingInvoices:       1,
		PartiallyPaidInvoices: 1,
	}, summary)

	assert.Equal(t, models.InvoiceSummary{}, SummarizeInvoices(nil))
}

func TestDetailInvoices(t *testing.T) {
	report := DetailInvoices(salesInvoices(), map[string]string{"b1": "Downtown"})
	require.True(t, report.Success)
	require.Len(t, report.Invoices, 3)

	assert.Equal(t, "DOW-00002", report.Invoices[0].InvoiceNumber)
	assert.Equal(t, "UPT-00001", report.Invoices[2].InvoiceNumber)
	assert.Equal(t, "Downtown", report.Invoices[0].Branch)
	assert.Equal(t, models.UnknownName, report.Invoices[2].Branch)
	assert.Equal(t, models.UnknownName, report.Invoices[0].Client)
	assert.Equal(t, "Asha", report.Invoices[1].Client)

	assert.Equal(t, models.DetailedReportSummary{
		TotalInvoices:   3,
		TotalAmount:     854,
		TotalItems:      3,
		PaidInvoices:    1,
		PendingInvoices: 1,
	}, report.Summary)

	newest := report.Invoices[0]
	assert.Equal(t, 1, newest.ItemCount, "lines, not units")
	require.Len(t, newest.Items, 1)
	assert.Equal(t, 200.0, newest.Items[0].Amount, "price times quantity before GST")
	assert.Equal(t, 36.0, newest.Items[0].GST)
}

func TestDetailInvoices_LineFallbacks(t *testing.T) {
	invoices := []models.Invoice{{
		ID: "1", Date: testNow, GrandTotal: 59,
		Items: []models.LineItem{
			{Name: "Trim", Quantity: 1, Price: 40, FinalAmount: 36},
			{Name: "Wash", CategoryName: "Care", Quantity: 3, Price: 5.5, FinalAmount: 16.5},
		},
	}}

	report := DetailInvoices(invoices, nil)
	require.Len(t, report.Invoices, 1)
	items := report.Invoices[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, models.UncategorizedName, items[0].Category)
	assert.Equal(t, 40.0, items[0].Amount)
	assert.Equal(t, "Care", items[1].Category)
	assert.Equal(t, 16.5, items[1].Amount)
	assert.Equal(t, 2, report.Invoices[0].ItemCount)
	assert.Equal(t, 2, report.Summary.TotalItems)
}
