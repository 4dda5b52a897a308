package billing

import (
	"sort"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// DefaultTopSubcategories is the size of the branch-wide subcategory ranking
const DefaultTopSubcategories = 10

// CategoryWindows selects the periods a category's revenue is bucketed into.
// Range is the report period and drives totals, subcategory revenue and rankings.
type CategoryWindows struct {
	Daily   Window
	Weekly  Window
	Monthly Window
	Range   Window
}

// ReportCategoryWindows picks Today, This Week and This Month from the standard windows
func ReportCategoryWindows(standard []Window, reportRange Window) CategoryWindows {
	cw := CategoryWindows{Range: reportRange}
	cw.Daily, _ = FindWindow(standard, WindowToday)
	cw.Weekly, _ = FindWindow(standard, WindowThisWeek)
	cw.Monthly, _ = FindWindow(standard, WindowThisMonth)
	return cw
}

type subcategoryTally struct {
	id      string
	name    string
	revenue sum
}

type categoryTally struct {
	id      string
	name    string
	daily   sum
	weekly  sum
	monthly sum
	rng     sum
	subs    []*subcategoryTally
	subByID map[string]*subcategoryTally
	top     *subcategoryTally
	topRev  float64
}

// CategoryBreakdown is the result of folding invoices into a branch catalog
type CategoryBreakdown struct {
	Categories       []models.CategoryPerformance
	TopSubcategories []models.RankedSubcategory
}

// AggregateCategories folds invoice line items into per-category and per-subcategory revenue.
// Only non-deleted catalog entries are tallied; items pointing anywhere else are skipped.
// topN limits the subcategory ranking, falling back to DefaultTopSubcategories when not positive.
func AggregateCategories(branch *models.Branch, invoices []models.Invoice, windows CategoryWindows, topN int) CategoryBreakdown {
	if topN <= 0 {
		topN = DefaultTopSubcategories
	}

	tallies := make([]*categoryTally, 0, len(branch.Categories))
	byID := make(map[string]*categoryTally, len(branch.Categories))
	for _, cat := range branch.Categories {
		if cat.IsDeleted() {
			continue
		}
		ct := &categoryTally{id: cat.ID, name: cat.Name, subByID: make(map[string]*subcategoryTally)}
		for _, sub := range cat.Subcategories {
			if sub.IsDeleted() {
				continue
			}
			st := &subcategoryTally{id: sub.ID, name: sub.Name}
			ct.subs = append(ct.subs, st)
			ct.subByID[sub.ID] = st
		}
		tallies = append(tallies, ct)
		byID[cat.ID] = ct
	}

	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() {
			continue
		}
		inDaily := windows.Daily.Contains(inv.Date)
		inWeekly := windows.Weekly.Contains(inv.Date)
		inMonthly := windows.Monthly.Contains(inv.Date)
		inRange := windows.Range.Contains(inv.Date)
		if !inDaily && !inWeekly && !inMonthly && !inRange {
			continue
		}

		for _, item := range inv.Items {
			ct, ok := byID[item.CategoryID]
			if !ok {
				continue
			}
			amount := itemAmount(item)
			if inDaily {
				ct.daily.add(amount)
			}
			if inWeekly {
				ct.weekly.add(amount)
			}
			if inMonthly {
				ct.monthly.add(amount)
			}
			if !inRange {
				continue
			}
			ct.rng.add(amount)

			st, ok := ct.subByID[item.SubcategoryID]
			if !ok {
				continue
			}
			st.revenue.add(amount)
			if running := st.revenue.value(); running > ct.topRev {
				ct.top = st
				ct.topRev = running
			}
		}
	}

	breakdown := CategoryBreakdown{
		Categories:       make([]models.CategoryPerformance, 0, len(tallies)),
		TopSubcategories: []models.RankedSubcategory{},
	}
	var ranked []models.RankedSubcategory
	for _, ct := range tallies {
		perf := models.CategoryPerformance{
			ID:           ct.id,
			Name:         ct.name,
			TotalRevenue: ct.rng.value(),
			Revenue: models.CategoryRevenue{
				Daily:   ct.daily.value(),
				Weekly:  ct.weekly.value(),
				Monthly: ct.monthly.value(),
				Range:   ct.rng.value(),
			},
			Subcategories: make([]models.SubcategoryRevenue, 0, len(ct.subs)),
		}
		if ct.top != nil {
			perf.TopSubcategory = models.TopSubcategory{Name: ct.top.name, Revenue: ct.topRev}
		}
		for _, st := range ct.subs {
			rev := st.revenue.value()
			perf.Subcategories = append(perf.Subcategories, models.SubcategoryRevenue{ID: st.id, Name: st.name, Revenue: rev})
			if rev > 0 {
				ranked = append(ranked, models.RankedSubcategory{
					SubcategoryID: st.id,
					Name:          st.name,
					Category:      ct.name,
					CategoryID:    ct.id,
					Revenue:       rev,
				})
			}
		}
		breakdown.Categories = append(breakdown.Categories, perf)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	if ranked != nil {
		breakdown.TopSubcategories = ranked
	}
	return breakdown
}

// itemAmount is the revenue a stored line item contributes.
// Legacy records without a final amount fall back to price times quantity.
func itemAmount(item models.LineItem) float64 {
	if amount := safeAmount(item.FinalAmount); amount != 0 {
		return amount
	}
	return safeAmount(item.Price) * float64(item.Quantity)
}

// ZeroRevenueCategories returns the names of categories that earned nothing in the report range
func ZeroRevenueCategories(categories []models.CategoryPerformance) []string {
	var names []string
	for _, c := range categories {
		if c.TotalRevenue == 0 {
			names = append(names, c.Name)
		}
	}
	return names
}
