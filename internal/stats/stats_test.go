package stats

import (
	"testing"
	"time"
)

func recs(values ...float64) []Record {
	// Newest first: index 0 is the most recent entry.
	out := make([]Record, len(values))
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, v := range values {
		out[i] = Record{Value: v, RecordedAt: base.AddDate(0, 0, -i)}
	}
	return out
}

// TestCalculateEmpty verifies that an empty or nil history yields no summary
// rather than a zeroed one.
func TestCalculateEmpty(t *testing.T) {
	if got := Calculate(nil); got != nil {
		t.Errorf("Calculate(nil) = %+v, want nil", got)
	}
	if got := Calculate([]Record{}); got != nil {
		t.Errorf("Calculate([]) = %+v, want nil", got)
	}
}

// TestCalculateSingle verifies that a single record is its own min, max and
// current, with zero change.
func TestCalculateSingle(t *testing.T) {
	got := Calculate(recs(85))
	if got == nil {
		t.Fatal("Calculate returned nil for one record")
	}
	want := Summary{Current: 85, Min: 85, Max: 85, Change: 0}
	if *got != want {
		t.Errorf("Calculate = %+v, want %+v", *got, want)
	}
}

// TestCalculateNewestFirst verifies that change is computed as newest minus
// oldest over a newest-first list.
func TestCalculateNewestFirst(t *testing.T) {
	got := Calculate(recs(82, 84, 86, 88))
	if got == nil {
		t.Fatal("Calculate returned nil")
	}
	want := Summary{Current: 82, Min: 82, Max: 88, Change: -6}
	if *got != want {
		t.Errorf("Calculate = %+v, want %+v", *got, want)
	}
}

// TestCalculateChangeRounding verifies one-decimal rounding of the change.
func TestCalculateChangeRounding(t *testing.T) {
	got := Calculate(recs(80.07, 79.9, 80.0))
	if got.Change != 0.1 {
		t.Errorf("Change = %v, want 0.1", got.Change)
	}
}

// TestCalculateBounds verifies the min ≤ current ≤ max ordering for a range
// of histories, including ones where the extremes are in the middle.
func TestCalculateBounds(t *testing.T) {
	histories := [][]float64{
		{85},
		{82, 84, 86, 88},
		{90, 71, 99, 85},
		{50.5, 50.5, 50.5},
		{1, 100, 2, 99, 3},
	}
	for _, values := range histories {
		s := Calculate(recs(values...))
		if s == nil {
			t.Fatalf("Calculate(%v) = nil", values)
		}
		if s.Min > s.Current || s.Current > s.Max {
			t.Errorf("Calculate(%v): min=%v current=%v max=%v violates ordering",
				values, s.Min, s.Current, s.Max)
		}
	}
}

// TestTrendInsufficient verifies that empty and single-record histories
// are always stable.
func TestTrendInsufficient(t *testing.T) {
	if got := Trend(nil, DefaultTrendWindow); got != Stable {
		t.Errorf("Trend(nil) = %v, want stable", got)
	}
	if got := Trend(recs(85), DefaultTrendWindow); got != Stable {
		t.Errorf("Trend(single) = %v, want stable", got)
	}
}

// TestTrendWindowed verifies window-mean comparison in both directions.
func TestTrendWindowed(t *testing.T) {
	// Newest first: values rising over time → increasing.
	if got := Trend(recs(88, 87, 86, 85), 2); got != Increasing {
		t.Errorf("rising history: Trend = %v, want increasing", got)
	}
	if got := Trend(recs(85, 86, 87, 88), 2); got != Decreasing {
		t.Errorf("falling history: Trend = %v, want decreasing", got)
	}
}

// TestTrendNoiseFloor verifies that differences under 0.5 are stable.
func TestTrendNoiseFloor(t *testing.T) {
	if got := Trend(recs(85.4, 85.2, 85.1, 85.0), 2); got != Stable {
		t.Errorf("sub-threshold history: Trend = %v, want stable", got)
	}
}

// TestTrendShortHistory verifies the direct newest-vs-oldest comparison when
// there is no full previous window.
func TestTrendShortHistory(t *testing.T) {
	// 3 records with window 7: previous window is empty.
	if got := Trend(recs(90, 86, 85), 7); got != Increasing {
		t.Errorf("short rising history: Trend = %v, want increasing", got)
	}
	if got := Trend(recs(85, 85.3), 7); got != Stable {
		t.Errorf("short flat history: Trend = %v, want stable", got)
	}
}

// TestChartSeriesOrderAndLimit verifies that the series is chronological
// (reversed relative to the newest-first input) and capped at the limit.
func TestChartSeriesOrderAndLimit(t *testing.T) {
	records := recs(88, 86, 84, 82)

	points := ChartSeries(records, 3)
	if len(points) != 3 {
		t.Fatalf("len = %d, want 3", len(points))
	}
	// The 3 newest records (88, 86, 84) rendered oldest first.
	wantValues := []float64{84, 86, 88}
	for i, p := range points {
		if p.Value != wantValues[i] {
			t.Errorf("points[%d].Value = %v, want %v", i, p.Value, wantValues[i])
		}
	}
}

// TestChartSeriesEmpty verifies that empty input yields an empty series.
func TestChartSeriesEmpty(t *testing.T) {
	if points := ChartSeries(nil, 30); len(points) != 0 {
		t.Errorf("ChartSeries(nil) returned %d points, want 0", len(points))
	}
}

// TestChartSeriesLabels verifies the short and verbose date label formats.
func TestChartSeriesLabels(t *testing.T) {
	r := Record{Value: 80, RecordedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	points := ChartSeries([]Record{r}, 30)
	if len(points) != 1 {
		t.Fatalf("len = %d, want 1", len(points))
	}
	if points[0].DateLabel != "Mar 1" {
		t.Errorf("DateLabel = %q, want %q", points[0].DateLabel, "Mar 1")
	}
	if points[0].FullDateLabel != "March 1, 2026" {
		t.Errorf("FullDateLabel = %q, want %q", points[0].FullDateLabel, "March 1, 2026")
	}
}
