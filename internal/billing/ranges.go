package billing

import (
	"fmt"
	"time"
)

// Report date ranges
const (
	Range7d     = "7d"
	Range30d    = "30d"
	Range90d    = "90d"
	RangeAll    = "all"
	RangeCustom = "custom"
)

var rangeDays = map[string]int{
	Range7d:  7,
	Range30d: 30,
	Range90d: 90,
}

// ReportRange is a resolved report period
type ReportRange struct {
	Window
	Label    string
	IsCustom bool
	// Unbounded is set for the "all" range; Window is then zero
	Unbounded bool
}

// ResolveReportRange turns report query parameters into a period.
// A custom range applies only when both dates are set. Unknown range names fall back to 30d.
func ResolveReportRange(now time.Time, dateRange, startDate, endDate string) (ReportRange, error) {
	if startDate != "" && endDate != "" {
		start, err := time.ParseInLocation(dayLayout, startDate, now.Location())
		if err != nil {
			return ReportRange{}, fmt.Errorf("%w: invalid startDate %q, use YYYY-MM-DD", ErrInvalidFilter, startDate)
		}
		end, err := time.ParseInLocation(dayLayout, endDate, now.Location())
		if err != nil {
			return ReportRange{}, fmt.Errorf("%w: invalid endDate %q, use YYYY-MM-DD", ErrInvalidFilter, endDate)
		}
		if end.Before(start) {
			return ReportRange{}, fmt.Errorf("%w: endDate is before startDate", ErrInvalidFilter)
		}
		return ReportRange{
			Window:   CustomWindow(WindowSelectedRange, start, end),
			Label:    RangeCustom,
			IsCustom: true,
		}, nil
	}

	days, ok := rangeDays[dateRange]
	if !ok {
		dateRange = Range30d
		days = rangeDays[Range30d]
	}
	return ReportRange{Window: trailingDays(now, days), Label: dateRange}, nil
}

// ResolvePortfolioRange resolves a portfolio range, where "all" applies no date filter
func ResolvePortfolioRange(now time.Time, dateRange string) ReportRange {
	if dateRange == RangeAll {
		return ReportRange{Window: Window{Name: WindowSelectedRange}, Label: RangeAll, Unbounded: true}
	}
	days, ok := rangeDays[dateRange]
	if !ok {
		dateRange = Range30d
		days = rangeDays[Range30d]
	}
	return ReportRange{Window: trailingDays(now, days), Label: dateRange}
}

// trailingDays spans from the start of the day n days ago through the end of today
func trailingDays(now time.Time, n int) Window {
	end := DayEnd(now)
	start := DayStart(end.AddDate(0, 0, -n))
	return Window{Name: WindowSelectedRange, Start: start, End: end}
}

// Contains reports whether t falls inside the range
func (r ReportRange) Contains(t time.Time) bool {
	return r.Unbounded || r.Window.Contains(t)
}
