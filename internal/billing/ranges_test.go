package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReportRange(t *testing.T) {
	tests := []struct {
		name      string
		dateRange string
		start     string
		end       string
		wantLabel string
		wantDays  int
		custom    bool
		wantErr   bool
	}{
		{name: "default", wantLabel: Range30d, wantDays: 31},
		{name: "seven days", dateRange: Range7d, wantLabel: Range7d, wantDays: 8},
		{name: "ninety days", dateRange: Range90d, wantLabel: Range90d, wantDays: 91},
		{name: "unknown falls back", dateRange: "1y", wantLabel: Range30d, wantDays: 31},
		{name: "custom", start: "2024-03-01", end: "2024-03-10", wantLabel: RangeCustom, wantDays: 10, custom: true},
		{name: "only start ignored", dateRange: Range7d, start: "2024-03-01", wantLabel: Range7d, wantDays: 8},
		{name: "bad start", start: "03/01/2024", end: "2024-03-10", wantErr: true},
		{name: "bad end", start: "2024-03-01", end: "tomorrow", wantErr: true},
		{name: "reversed", start: "2024-03-10", end: "2024-03-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ResolveReportRange(testNow, tt.dateRange, tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, r.Label)
			assert.Equal(t, tt.custom, r.IsCustom)
			assert.Equal(t, tt.wantDays, TotalDays(r.Window))
			assert.Equal(t, WindowSelectedRange, r.Name)
		})
	}
}

func TestResolveReportRange_PredefinedBounds(t *testing.T) {
	r, err := ResolveReportRange(testNow, Range7d, "", "")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 6), r.Start)
	assert.Equal(t, DayEnd(testNow), r.End)
}

func TestResolvePortfolioRange(t *testing.T) {
	all := ResolvePortfolioRange(testNow, RangeAll)
	assert.True(t, all.Unbounded)
	assert.True(t, all.Contains(day(1999, 1, 1)))

	week := ResolvePortfolioRange(testNow, Range7d)
	assert.False(t, week.Unbounded)
	assert.False(t, week.Contains(day(2024, 3, 5)))
	assert.True(t, week.Contains(day(2024, 3, 6)))

	assert.Equal(t, Range30d, ResolvePortfolioRange(testNow, "").Label)
}
