package billing

import (
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// Window names
const (
	WindowToday         = "Today"
	WindowYesterday     = "Yesterday"
	WindowThisWeek      = "This Week"
	WindowLastWeek      = "Last Week"
	WindowThisMonth     = "This Month"
	WindowLastMonth     = "Last Month"
	WindowSelectedRange = "Selected Range"
)

// Window is a named, inclusive [Start, End] period
type Window struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayStart returns 00:00:00.000 of t's day in t's location
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd returns 23:59:59.999 of t's day in t's location
func DayEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// CustomWindow builds a window spanning the full days of start and end
func CustomWindow(name string, start, end time.Time) Window {
	return Window{Name: name, Start: DayStart(start), End: DayEnd(end)}
}

// StandardWindows returns the fixed reporting periods relative to now.
// Weeks start on Sunday.
func StandardWindows(now time.Time) []Window {
	today := DayStart(now)
	yesterday := today.AddDate(0, 0, -1)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	lastWeekStart := weekStart.AddDate(0, 0, -7)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	return []Window{
		CustomWindow(WindowToday, today, today),
		CustomWindow(WindowYesterday, yesterday, yesterday),
		CustomWindow(WindowThisWeek, weekStart, today),
		CustomWindow(WindowLastWeek, lastWeekStart, weekStart.AddDate(0, 0, -1)),
		CustomWindow(WindowThisMonth, monthStart, today),
		CustomWindow(WindowLastMonth, lastMonthStart, monthStart.AddDate(0, 0, -1)),
	}
}

// FindWindow returns the window with the given name
func FindWindow(windows []Window, name string) (Window, bool) {
	for _, w := range windows {
		if w.Name == name {
			return w, true
		}
	}
	return Window{}, false
}

// Span returns the smallest window covering all of the given windows
func Span(name string, windows ...Window) Window {
	if len(windows) == 0 {
		return Window{Name: name}
	}
	span := Window{Name: name, Start: windows[0].Start, End: windows[0].End}
	for _, w := range windows[1:] {
		if w.Start.Before(span.Start) {
			span.Start = w.Start
		}
		if w.End.After(span.End) {
			span.End = w.End
		}
	}
	return span
}

// BucketRevenue computes revenue, count and average of the invoices inside each window.
// Deleted invoices are ignored and unusable grand totals count as zero.
func BucketRevenue(invoices []models.Invoice, windows []Window) []models.ReportWindow {
	result := make([]models.ReportWindow, 0, len(windows))
	for _, w := range windows {
		var revenue sum
		count := 0
		for i := range invoices {
			inv := &invoices[i]
			if inv.IsDeleted() || !w.Contains(inv.Date) {
				continue
			}
			revenue.add(inv.GrandTotal)
			count++
		}
		total := revenue.value()
		result = append(result, models.ReportWindow{
			Name:         w.Name,
			Start:        w.Start,
			End:          w.End,
			Revenue:      total,
			Count:        count,
			AverageValue: SafeAverage(total, count),
		})
	}
	return result
}

// FilterInvoices returns the invoices dated within the window
func FilterInvoices(invoices []models.Invoice, w Window) []models.Invoice {
	filtered := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if w.Contains(inv.Date) {
			filtered = append(filtered, inv)
		}
	}
	return filtered
}

// TotalDays returns the number of days a window spans, rounded up
func TotalDays(w Window) int {
	days := w.End.Sub(w.Start).Hours() / 24
	whole := int(days)
	if float64(whole) < days {
		whole++
	}
	return whole
}
