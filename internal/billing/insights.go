package billing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// Report client type filters
const (
	ClientFilterAll        = "all"
	ClientFilterRegular    = "regular"
	ClientFilterNonRegular = "non-regular"
)

// DefaultTopSpenders is the size of the revenue report client ranking
const DefaultTopSpenders = 5

// regularRevenueFloor is the share of revenue below which regular clients need attention
const regularRevenueFloor = 30

// ClientFilters lists the accepted client type filters
var ClientFilters = []string{ClientFilterAll, ClientFilterRegular, ClientFilterNonRegular}

// MatchesClientFilter reports whether an invoice passes a client type filter
func MatchesClientFilter(inv *models.Invoice, filter string) bool {
	switch filter {
	case ClientFilterRegular:
		return inv.ClientType == models.ClientTypeRegular
	case ClientFilterNonRegular:
		return inv.ClientType == models.ClientTypeNonRegular
	default:
		return true
	}
}

// SpendLabel is the display label of a client's segment
func SpendLabel(isRegular bool) string {
	if isRegular {
		return "Regular"
	}
	return "Non-regular"
}

// RankClientSpend ranks the clients behind invoices by total spend. Names and segment
// labels come from live when the client resolves there.
func RankClientSpend(invoices []models.Invoice, live ClientIndex, limit int) []models.ClientSpend {
	if limit <= 0 {
		limit = DefaultTopSpenders
	}

	type spend struct {
		entry models.ClientSpend
		total sum
	}
	byID := make(map[string]*spend)
	var order []*spend
	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() || inv.ClientID == "" {
			continue
		}
		s, ok := byID[inv.ClientID]
		if !ok {
			s = &spend{entry: models.ClientSpend{
				ClientID: inv.ClientID,
				Name:     live.Name(inv),
				Type:     SpendLabel(live.IsRegular(inv)),
			}}
			byID[inv.ClientID] = s
			order = append(order, s)
		}
		s.total.add(inv.GrandTotal)
		s.entry.PurchaseCount++
	}

	ranked := make([]models.ClientSpend, 0, len(order))
	for _, s := range order {
		s.entry.TotalSpent = s.total.value()
		s.entry.AvgPurchase = SafeAverage(s.entry.TotalSpent, s.entry.PurchaseCount)
		ranked = append(ranked, s.entry)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSpent > ranked[j].TotalSpent
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// RegularRevenuePercentage is the rounded share of revenue billed to clients that are
// regular now
func RegularRevenuePercentage(invoices []models.Invoice, live ClientIndex) int {
	var regular, total sum
	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() {
			continue
		}
		total.add(inv.GrandTotal)
		if live.IsRegular(inv) {
			regular.add(inv.GrandTotal)
		}
	}
	return Percentage(regular.value(), total.value())
}

// BuildClientInsights summarizes the clients billed by a report.
// clients are the current records of the invoiced clients.
func BuildClientInsights(clients []models.Client, invoices []models.Invoice, clientFilter string) models.ClientInsights {
	regular := 0
	for _, c := range clients {
		if c.IsRegular {
			regular++
		}
	}
	insights := models.ClientInsights{
		RegularClients:                  regular,
		TotalClients:                    len(clients),
		RegularClientsRevenuePercentage: RegularRevenuePercentage(invoices, IndexClients(clients)),
	}
	switch clientFilter {
	case ClientFilterRegular:
		insights.FilteredClients = regular
	case ClientFilterNonRegular:
		insights.FilteredClients = len(clients) - regular
	default:
		insights.FilteredClients = len(clients)
	}
	return insights
}

// InvoicedClientIDs returns the distinct client ids of invoices in first-seen order
func InvoicedClientIDs(invoices []models.Invoice) []string {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, inv := range invoices {
		if inv.ClientID == "" {
			continue
		}
		if _, ok := seen[inv.ClientID]; ok {
			continue
		}
		seen[inv.ClientID] = struct{}{}
		ids = append(ids, inv.ClientID)
	}
	return ids
}

// Recommendations derives the action items of a revenue report
func Recommendations(regularRevenuePct int, clientFilter string, top []models.RankedSubcategory, categories []models.CategoryPerformance) []string {
	recs := []string{}
	if regularRevenuePct < regularRevenueFloor && clientFilter != ClientFilterNonRegular {
		recs = append(recs, fmt.Sprintf("Focus on regular clients - they generate only %d%% of revenue", regularRevenuePct))
	}
	if len(top) > 0 {
		recs = append(recs, fmt.Sprintf("Promote top subcategory: %s", top[0].Name))
	}
	if idle := ZeroRevenueCategories(categories); len(idle) > 0 {
		recs = append(recs, fmt.Sprintf("Review categories with no revenue: %s", strings.Join(idle, ", ")))
	}
	return recs
}
