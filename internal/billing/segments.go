package billing

import (
	"math"
	"sort"
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// DefaultTopClients is the size of the portfolio client ranking
const DefaultTopClients = 10

// ClientIndex holds the current client records by id. Report segments follow a
// client's present standing; the invoice snapshot is used only for clients that no
// longer resolve.
type ClientIndex map[string]*models.Client

// IndexClients indexes clients by id
func IndexClients(clients []models.Client) ClientIndex {
	idx := make(ClientIndex, len(clients))
	for i := range clients {
		idx[clients[i].ID] = &clients[i]
	}
	return idx
}

// IsRegular reports the current regular flag of the invoice's client
func (idx ClientIndex) IsRegular(inv *models.Invoice) bool {
	if c, ok := idx[inv.ClientID]; ok {
		return c.IsRegular
	}
	return inv.Client.IsRegular
}

// Name returns the client's current name, then the snapshot name, then UnknownName
func (idx ClientIndex) Name(inv *models.Invoice) string {
	if c, ok := idx[inv.ClientID]; ok && c.Name != "" {
		return c.Name
	}
	if inv.Client.Name != "" {
		return inv.Client.Name
	}
	return models.UnknownName
}

type segmentTally struct {
	count    int
	revenue  sum
	invoices int
	items    int
}

type clientTally struct {
	stats models.ClientStats
	spent sum
}

// SegmentClients partitions clients into regular and non-regular segments and ranks them
// by spend. Invoices are expected to be filtered by date already. An invoice counts toward
// the current segment of its client.
func SegmentClients(clients []models.Client, invoices []models.Invoice, now time.Time, topN int) models.Segmentation {
	if topN <= 0 {
		topN = DefaultTopClients
	}

	var regular, nonRegular segmentTally
	for _, c := range clients {
		if c.IsRegular {
			regular.count++
		} else {
			nonRegular.count++
		}
	}

	live := IndexClients(clients)
	perClient := make(map[string]*clientTally)
	var order []*clientTally
	totalItems := 0

	for i := range invoices {
		inv := &invoices[i]
		if inv.IsDeleted() {
			continue
		}

		isRegular := live.IsRegular(inv)
		segment := &nonRegular
		if isRegular {
			segment = &regular
		}
		segment.revenue.add(inv.GrandTotal)
		segment.invoices++

		items := inv.ItemCount()
		segment.items += items
		totalItems += items

		if inv.ClientID == "" {
			continue
		}
		ct, ok := perClient[inv.ClientID]
		if !ok {
			ct = &clientTally{
				stats: models.ClientStats{
					ClientID:          inv.ClientID,
					Name:              live.Name(inv),
					IsRegular:         isRegular,
					FirstPurchaseDate: inv.Date,
					LastPurchaseDate:  inv.Date,
				},
			}
			perClient[inv.ClientID] = ct
			order = append(order, ct)
		}
		ct.spent.add(inv.GrandTotal)
		ct.stats.InvoiceCount++
		ct.stats.ItemsPurchased += items
		if inv.Date.Before(ct.stats.FirstPurchaseDate) {
			ct.stats.FirstPurchaseDate = inv.Date
		}
		if inv.Date.After(ct.stats.LastPurchaseDate) {
			ct.stats.LastPurchaseDate = inv.Date
		}
	}

	regularRevenue := regular.revenue.value()
	nonRegularRevenue := nonRegular.revenue.value()
	totalRevenue := Round2(regularRevenue + nonRegularRevenue)
	totalClients := regular.count + nonRegular.count

	seg := models.Segmentation{
		Summary: models.PortfolioSummary{
			TotalClients:            totalClients,
			RegularClients:          regular.count,
			NonRegularClients:       nonRegular.count,
			RegularClientPercentage: Percentage(float64(regular.count), float64(totalClients)),
			TotalRevenue:            totalRevenue,
			RevenueFromRegular:      regularRevenue,
			RevenueFromNonRegular:   nonRegularRevenue,
			AvgRevenuePerClient:     SafeAverage(totalRevenue, totalClients),
			AvgRevenuePerRegular:    SafeAverage(regularRevenue, regular.count),
			AvgRevenuePerNonRegular: SafeAverage(nonRegularRevenue, nonRegular.count),
			TotalInvoices:           regular.invoices + nonRegular.invoices,
			TotalItemsSold:          totalItems,
		},
		Segments: models.ClientSegments{
			Regular:    segmentStats(regular, totalRevenue),
			NonRegular: segmentStats(nonRegular, totalRevenue),
		},
		TopClients: make([]models.ClientStats, 0, min(topN, len(order))),
	}

	for _, ct := range order {
		ct.stats.TotalSpent = ct.spent.value()
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].stats.TotalSpent > order[j].stats.TotalSpent
	})
	if len(order) > topN {
		order = order[:topN]
	}
	for _, ct := range order {
		stats := ct.stats
		stats.AvgSpendPerInvoice = SafeAverage(stats.TotalSpent, stats.InvoiceCount)
		stats.DaysSinceLastPurchase = DaysSince(stats.LastPurchaseDate, now)
		seg.TopClients = append(seg.TopClients, stats)
	}
	return seg
}

func segmentStats(t segmentTally, totalRevenue float64) models.SegmentStats {
	revenue := t.revenue.value()
	return models.SegmentStats{
		Count:               t.count,
		Revenue:             revenue,
		Invoices:            t.invoices,
		Items:               t.items,
		AvgInvoiceValue:     SafeAverage(revenue, t.invoices),
		PercentageOfRevenue: Percentage(revenue, totalRevenue),
	}
}

// DaysSince returns the whole days elapsed between then and now, never negative
func DaysSince(then, now time.Time) int {
	if then.IsZero() || now.Before(then) {
		return 0
	}
	return int(math.Floor(now.Sub(then).Hours() / 24))
}
