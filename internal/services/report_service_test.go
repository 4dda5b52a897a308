package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// reportNow is a Wednesday; the week started on Sunday 10 March
var reportNow = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

type reportFixture struct {
	*env
	reports *reportService
}

// setupReports bills five invoices around reportNow:
//
//	13 Mar Asha Men x1 106.2, 12 Mar Ravi Men x1 118, 5 Mar Asha Kids x1 54,
//	20 Feb Ravi Kids x2 120, 1 Jan Ravi Men x1 118
func setupReports(t *testing.T) *reportFixture {
	t.Helper()
	e := setupEnv(t)

	at := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 10, 0, 0, 0, time.UTC) }
	e.createInvoice(t, at(time.March, 13), e.regular, e.item(e.men, 1))
	e.createInvoice(t, at(time.March, 12), e.walkIn, e.item(e.men, 1))
	e.createInvoice(t, at(time.March, 5), e.regular, e.item(e.kids, 1))
	e.createInvoice(t, at(time.February, 20), e.walkIn, e.item(e.kids, 2))
	e.createInvoice(t, at(time.January, 1), e.walkIn, e.item(e.men, 1))

	reports := e.services.ReportService.(*reportService)
	reports.now = func() time.Time { return reportNow }
	return &reportFixture{env: e, reports: reports}
}

type windowTotal struct {
	Name    string
	Revenue float64
	Count   int
	Average float64
}

func windowTotals(windows []models.ReportWindow) []windowTotal {
	out := make([]windowTotal, 0, len(windows))
	for _, w := range windows {
		out = append(out, windowTotal{w.Name, w.Revenue, w.Count, w.AverageValue})
	}
	return out
}

func TestReportService_GenerateRevenueReport(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	report, err := f.reports.GenerateRevenueReport(ctx, f.company.ID, f.branch.ID, &ReportFilters{})
	require.NoError(t, err)

	wantWindows := []windowTotal{
		{"Today", 106.2, 1, 106.2},
		{"Yesterday", 118, 1, 118},
		{"This Week", 224.2, 2, 112.1},
		{"Last Week", 54, 1, 54},
		{"This Month", 278.2, 3, 92.73},
		{"Last Month", 120, 1, 120},
		{"Selected Range", 398.2, 4, 99.55},
	}
	if diff := cmp.Diff(wantWindows, windowTotals(report.RevenueSummary)); diff != "" {
		t.Errorf("revenue summary mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, report.CategoryPerformance, 1)
	haircut := report.CategoryPerformance[0]
	assert.Equal(t, models.CategoryRevenue{Daily: 106.2, Weekly: 224.2, Monthly: 278.2, Range: 398.2}, haircut.Revenue)
	assert.Equal(t, 398.2, haircut.TotalRevenue)
	assert.Equal(t, models.TopSubcategory{Name: "Men", Revenue: 224.2}, haircut.TopSubcategory)

	wantTop := []models.RankedSubcategory{
		{Rank: 1, SubcategoryID: f.men.ID, Name: "Men", Category: "Haircut", CategoryID: f.haircut.ID, Revenue: 224.2},
		{Rank: 2, SubcategoryID: f.kids.ID, Name: "Kids", Category: "Haircut", CategoryID: f.haircut.ID, Revenue: 174},
	}
	if diff := cmp.Diff(wantTop, report.TopSubcategories); diff != "" {
		t.Errorf("top subcategories mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, models.ClientInsights{
		RegularClients:                  1,
		TotalClients:                    2,
		RegularClientsRevenuePercentage: 40,
		FilteredClients:                 2,
	}, report.ClientInsights)

	require.Len(t, report.TopClients, 2)
	assert.Equal(t, "Ravi", report.TopClients[0].Name)
	assert.Equal(t, "Non-regular", report.TopClients[0].Type)
	assert.Equal(t, 238.0, report.TopClients[0].TotalSpent)
	assert.Equal(t, 119.0, report.TopClients[0].AvgPurchase)
	assert.Equal(t, "Regular", report.TopClients[1].Type)

	assert.Equal(t, []string{"Promote top subcategory: Men"}, report.Recommendations)

	assert.Equal(t, models.ReportFiltersEcho{ClientType: "all", DateRange: "30d", TotalDays: 31}, report.Filters)
	assert.Equal(t, models.ReportSummary{
		TotalRevenue:    398.2,
		TotalInvoices:   4,
		AvgInvoiceValue: 99.55,
		PeriodStart:     "2024-02-12",
		PeriodEnd:       "2024-03-13",
		TotalDays:       31,
	}, report.Summary)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, "Downtown", report.Branch.Name)
}

func TestReportService_ClientTypeFilters(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	tests := []struct {
		clientType string
		revenue    float64
		invoices   int
	}{
		{"regular", 160.2, 2},
		{"non-regular", 238, 2},
	}

	for _, tt := range tests {
		t.Run(tt.clientType, func(t *testing.T) {
			report, err := f.reports.GenerateRevenueReport(ctx, f.company.ID, f.branch.ID, &ReportFilters{ClientType: tt.clientType})
			require.NoError(t, err)
			assert.Equal(t, tt.revenue, report.Summary.TotalRevenue)
			assert.Equal(t, tt.invoices, report.Summary.TotalInvoices)
			assert.Equal(t, 1, report.ClientInsights.TotalClients)
			assert.Equal(t, 1, report.ClientInsights.FilteredClients)
			for _, rec := range report.Recommendations {
				assert.False(t, strings.HasPrefix(rec, "Focus on regular clients"), rec)
			}
		})
	}
}

func TestReportService_CustomRange(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	report, err := f.reports.GenerateRevenueReport(ctx, f.company.ID, f.branch.ID, &ReportFilters{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
	})
	require.NoError(t, err)

	require.NotNil(t, report.Filters.StartDate)
	require.NotNil(t, report.Filters.EndDate)
	assert.Equal(t, "2024-03-01", *report.Filters.StartDate)
	assert.Equal(t, "2024-03-05", *report.Filters.EndDate)
	assert.True(t, report.Filters.IsCustomRange)
	assert.Equal(t, "custom", report.Filters.DateRange)
	assert.Equal(t, 5, report.Filters.TotalDays)
	assert.Equal(t, 54.0, report.Summary.TotalRevenue)
	assert.Equal(t, []string{"Promote top subcategory: Kids"}, report.Recommendations)

	today := report.RevenueSummary[0]
	assert.Equal(t, "Today", today.Name)
	assert.Equal(t, 106.2, today.Revenue, "fixed windows ignore the selected range")
}

func TestReportService_InvalidFilters(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters *ReportFilters
		kind    ErrorKind
		code    string
	}{
		{"bad start date", &ReportFilters{StartDate: "03/01/2024", EndDate: "2024-03-05"}, KindValidation, CodeInvalidFilter},
		{"end before start", &ReportFilters{StartDate: "2024-03-05", EndDate: "2024-03-01"}, KindValidation, CodeInvalidFilter},
		{"unknown client type", &ReportFilters{ClientType: "vip"}, KindValidation, CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reports.GenerateRevenueReport(ctx, f.company.ID, f.branch.ID, tt.filters)
			requireCode(t, err, tt.kind, tt.code)
		})
	}

	_, err := f.reports.GenerateRevenueReport(ctx, f.company.ID, "missing", nil)
	requireCode(t, err, KindNotFound, CodeBranchNotFound)
}

func TestReportService_ClientLookupFailureDegradesInsights(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	broken := storeWithClients{Store: f.store, clients: failingClients{ClientRepository: f.store.Clients(), err: errors.New("disk I/O error")}}
	reports := NewReportService(broken, nil, DefaultReportOptions(), quietLogger()).(*reportService)
	reports.now = func() time.Time { return reportNow }

	report, err := reports.GenerateRevenueReport(ctx, f.company.ID, f.branch.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ClientInsights{}, report.ClientInsights)
	assert.Len(t, report.Warnings, 1)
	assert.Equal(t, 398.2, report.Summary.TotalRevenue)
	assert.Len(t, report.TopClients, 2)
}

func TestReportService_GetClientPortfolio(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	portfolio, err := f.reports.GetClientPortfolio(ctx, f.company.ID, f.branch.ID, &PortfolioFilters{DateRange: "all"})
	require.NoError(t, err)

	assert.Equal(t, models.PortfolioFiltersEcho{ClientType: "all", DateRange: "all"}, portfolio.Filters)
	assert.Equal(t, 2, portfolio.Summary.TotalClients)
	assert.Equal(t, 50, portfolio.Summary.RegularClientPercentage)
	assert.Equal(t, 516.2, portfolio.Summary.TotalRevenue)
	assert.Equal(t, 160.2, portfolio.Summary.RevenueFromRegular)
	assert.Equal(t, 356.0, portfolio.Summary.RevenueFromNonRegular)
	assert.Equal(t, 5, portfolio.Summary.TotalInvoices)
	assert.Equal(t, 6, portfolio.Summary.TotalItemsSold)
	assert.Equal(t, 2, portfolio.Segments.Regular.Invoices)
	assert.Equal(t, 3, portfolio.Segments.NonRegular.Invoices)

	require.Len(t, portfolio.TopClients, 2)
	top := portfolio.TopClients[0]
	assert.Equal(t, "Ravi", top.Name)
	assert.Equal(t, 3, top.InvoiceCount)
	assert.Equal(t, 356.0, top.TotalSpent)
	assert.Equal(t, 1, top.DaysSinceLastPurchase)

	regular, err := f.reports.GetClientPortfolio(ctx, f.company.ID, f.branch.ID, &PortfolioFilters{ClientType: "regular", DateRange: "7d"})
	require.NoError(t, err)
	assert.Equal(t, 1, regular.Summary.TotalClients)
	assert.Equal(t, 106.2, regular.Summary.TotalRevenue)
	assert.Equal(t, "7d", regular.Filters.DateRange)
}

func TestReportService_PromotedClientCountsAsRegular(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	_, err := f.services.ClientService.MarkRegular(ctx, f.company.ID, f.walkIn.ID, 5)
	require.NoError(t, err)

	portfolio, err := f.reports.GetClientPortfolio(ctx, f.company.ID, f.branch.ID, &PortfolioFilters{ClientType: "regular", DateRange: "all"})
	require.NoError(t, err)
	assert.Equal(t, 2, portfolio.Summary.RegularClients)
	assert.Equal(t, 0, portfolio.Summary.NonRegularClients)
	assert.Equal(t, 516.2, portfolio.Summary.RevenueFromRegular)
	assert.Equal(t, 0.0, portfolio.Summary.RevenueFromNonRegular)
	assert.Equal(t, 100, portfolio.Segments.Regular.PercentageOfRevenue)
	assert.Equal(t, 5, portfolio.Segments.Regular.Invoices)
	for _, c := range portfolio.TopClients {
		assert.True(t, c.IsRegular, c.Name)
	}

	report, err := f.reports.GenerateRevenueReport(ctx, f.company.ID, f.branch.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, report.ClientInsights.RegularClientsRevenuePercentage)
	for _, c := range report.TopClients {
		assert.Equal(t, "Regular", c.Type, c.Name)
	}
	for _, rec := range report.Recommendations {
		assert.NotContains(t, rec, "Focus on regular clients")
	}
}

func TestReportService_SalesAndDetailedReports(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	sales, err := f.reports.GetSalesReport(ctx, f.company.ID, &from, &to)
	require.NoError(t, err)

	wantDays := []models.DailySales{
		{Date: "2024-03-05", TotalSales: 54, InvoiceCount: 1},
		{Date: "2024-03-12", TotalSales: 118, InvoiceCount: 1},
		{Date: "2024-03-13", TotalSales: 106.2, InvoiceCount: 1},
	}
	if diff := cmp.Diff(wantDays, sales.SalesReport); diff != "" {
		t.Errorf("daily sales mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, sales.ProductReport, 2)
	byName := map[string]models.ProductSales{}
	for _, p := range sales.ProductReport {
		byName[p.SubcategoryName] = p
	}
	assert.Equal(t, 2, byName["Men"].TotalQuantity)
	assert.Equal(t, 200.0, byName["Men"].TotalAmount)
	assert.Equal(t, 60.0, byName["Kids"].TotalAmount)

	_, err = f.reports.GetSalesReport(ctx, f.company.ID, &to, &from)
	requireCode(t, err, KindValidation, CodeInvalidFilter)

	detailed, err := f.reports.GetDetailedInvoiceReport(ctx, f.company.ID, nil)
	require.NoError(t, err)
	assert.True(t, detailed.Success)
	assert.Equal(t, models.DetailedReportSummary{
		TotalInvoices:   5,
		TotalAmount:     516.2,
		TotalItems:      5,
		PendingInvoices: 5,
	}, detailed.Summary)
	require.Len(t, detailed.Invoices, 5)
	assert.Equal(t, "Downtown", detailed.Invoices[0].Branch)
	assert.Equal(t, "DOW-00001", detailed.Invoices[0].InvoiceNumber, "newest first")

	byClient, err := f.reports.GetDetailedInvoiceReport(ctx, f.company.ID, &DetailedReportFilters{ClientID: f.regular.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, byClient.Summary.TotalInvoices)
}

func TestReportService_ArchiveRoundTrip(t *testing.T) {
	f := setupReports(t)
	ctx := context.Background()

	key, err := f.reports.ArchiveRevenueReport(ctx, f.company.ID, f.branch.ID, &ReportFilters{DateRange: "7d"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "reports/"+f.company.ID+"/"+f.branch.ID+"/revenue-"), key)
	assert.True(t, strings.HasSuffix(key, ".json"), key)

	archived, err := f.reports.GetArchivedReport(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "7d", archived.Filters.DateRange)
	assert.Equal(t, 224.2, archived.Summary.TotalRevenue)

	_, err = f.reports.GetArchivedReport(ctx, "reports/"+f.company.ID+"/missing.json")
	requireCode(t, err, KindNotFound, CodeReportNotFound)

	_, err = f.reports.GetArchivedReport(ctx, "reports/../../etc/passwd")
	requireCode(t, err, KindValidation, CodeValidation)
}
