package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanMalviya08/Bill-app-backend/internal/models"
)

// Wednesday
var testNow = time.Date(2024, 3, 13, 15, 4, 5, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func invoiceAt(id string, at time.Time, grandTotal float64) models.Invoice {
	return models.Invoice{ID: id, Date: at, GrandTotal: grandTotal}
}

func TestStandardWindows(t *testing.T) {
	windows := StandardWindows(testNow)
	require.Len(t, windows, 6)

	endOf := DayEnd
	want := map[string][2]time.Time{
		WindowToday:     {day(2024, 3, 13), endOf(day(2024, 3, 13))},
		WindowYesterday: {day(2024, 3, 12), endOf(day(2024, 3, 12))},
		WindowThisWeek:  {day(2024, 3, 10), endOf(day(2024, 3, 13))},
		WindowLastWeek:  {day(2024, 3, 3), endOf(day(2024, 3, 9))},
		WindowThisMonth: {day(2024, 3, 1), endOf(day(2024, 3, 13))},
		WindowLastMonth: {day(2024, 2, 1), endOf(day(2024, 2, 29))},
	}

	for _, w := range windows {
		t.Run(w.Name, func(t *testing.T) {
			bounds, ok := want[w.Name]
			require.True(t, ok)
			assert.Equal(t, bounds[0], w.Start)
			assert.Equal(t, bounds[1], w.End)
		})
	}
}

func TestStandardWindows_SundayAndJanuary(t *testing.T) {
	sunday := time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)
	windows := StandardWindows(sunday)

	thisWeek, _ := FindWindow(windows, WindowThisWeek)
	assert.Equal(t, day(2023, 1, 1), thisWeek.Start)

	lastMonth, _ := FindWindow(windows, WindowLastMonth)
	assert.Equal(t, day(2022, 12, 1), lastMonth.Start)
	assert.Equal(t, DayEnd(day(2022, 12, 31)), lastMonth.End)
}

func TestDayBounds(t *testing.T) {
	end := DayEnd(testNow)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, 999*int(time.Millisecond), end.Nanosecond())
	assert.Equal(t, day(2024, 3, 13), DayStart(testNow))
}

func TestBucketRevenue_TodayScenario(t *testing.T) {
	invoices := []models.Invoice{
		invoiceAt("a", testNow.Add(-time.Hour), 150),
		invoiceAt("b", testNow, 250),
	}
	windows := StandardWindows(testNow)

	result := BucketRevenue(invoices, windows[:1])
	require.Len(t, result, 1)
	assert.Equal(t, WindowToday, result[0].Name)
	assert.Equal(t, 400.0, result[0].Revenue)
	assert.Equal(t, 2, result[0].Count)
	assert.Equal(t, 200.0, result[0].AverageValue)
}

func TestBucketRevenue_MidnightBoundaries(t *testing.T) {
	today := StandardWindows(testNow)[:1]
	endOfToday := DayEnd(testNow)
	startOfTomorrow := DayStart(testNow.AddDate(0, 0, 1))
	startOfToday := DayStart(testNow)
	lastOfYesterday := startOfToday.Add(-time.Millisecond)

	tests := []struct {
		name      string
		at        time.Time
		wantCount int
	}{
		{"last millisecond of today", endOfToday, 1},
		{"first instant of tomorrow", startOfTomorrow, 0},
		{"first instant of today", startOfToday, 1},
		{"last millisecond of yesterday", lastOfYesterday, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BucketRevenue([]models.Invoice{invoiceAt("x", tt.at, 10)}, today)
			assert.Equal(t, tt.wantCount, result[0].Count)
		})
	}
}

func TestBucketRevenue_OverlappingWindowsSkipDeleted(t *testing.T) {
	deleted := testNow
	invoices := []models.Invoice{
		invoiceAt("today", testNow, 100.005),
		invoiceAt("monday", day(2024, 3, 11).Add(10*time.Hour), 50),
		invoiceAt("last-month", day(2024, 2, 14), 75),
		{ID: "deleted", Date: testNow, GrandTotal: 999, DeletedAt: &deleted},
	}

	result := BucketRevenue(invoices, StandardWindows(testNow))
	byName := map[string]models.ReportWindow{}
	for _, w := range result {
		byName[w.Name] = w
	}

	assert.Equal(t, 100.01, byName[WindowToday].Revenue)
	assert.Equal(t, 1, byName[WindowToday].Count)
	assert.Equal(t, 2, byName[WindowThisWeek].Count)
	assert.Equal(t, 150.01, byName[WindowThisWeek].Revenue)
	assert.Equal(t, 75.0, byName[WindowLastMonth].Revenue)
	assert.Equal(t, 0, byName[WindowYesterday].Count)
	assert.Equal(t, 0.0, byName[WindowYesterday].AverageValue)
}

func TestBucketRevenue_Idempotent(t *testing.T) {
	invoices := []models.Invoice{
		invoiceAt("a", testNow, 10.1),
		invoiceAt("b", testNow, 20.2),
		invoiceAt("c", testNow.AddDate(0, 0, -1), 30.3),
	}
	windows := StandardWindows(testNow)

	first := BucketRevenue(invoices, windows)
	second := BucketRevenue(invoices, windows)
	assert.Equal(t, first, second)
}

func TestSpanAndTotalDays(t *testing.T) {
	windows := StandardWindows(testNow)
	span := Span("all", windows...)
	assert.Equal(t, day(2024, 2, 1), span.Start)
	assert.Equal(t, DayEnd(testNow), span.End)

	assert.Equal(t, 1, TotalDays(CustomWindow("one", testNow, testNow)))
	assert.Equal(t, 7, TotalDays(CustomWindow("week", day(2024, 3, 1), day(2024, 3, 7))))
	assert.Equal(t, 0, TotalDays(Span("empty")))
}
