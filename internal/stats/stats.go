// Package stats computes summary statistics and trends over ordered
// measurement histories. Inputs are always newest-first, the order the
// storage layer returns them in.
package stats

import (
	"math"
	"time"
)

// Record is the minimal shape the calculators need: a numeric value and
// when it was recorded.
type Record struct {
	Value      float64
	RecordedAt time.Time
}

// Summary holds the headline numbers for a measurement history.
// Change is current minus oldest, rounded to one decimal.
type Summary struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Change  float64 `json:"change"`
}

// Calculate returns the summary for a newest-first record list, or nil
// when there are no records. For a single record, Change is 0.
func Calculate(records []Record) *Summary {
	if len(records) == 0 {
		return nil
	}

	current := records[0].Value
	oldest := records[len(records)-1].Value
	min, max := current, current
	for _, r := range records {
		if r.Value < min {
			min = r.Value
		}
		if r.Value > max {
			max = r.Value
		}
	}

	return &Summary{
		Current: current,
		Min:     min,
		Max:     max,
		Change:  math.Round((current-oldest)*10) / 10,
	}
}

// Direction classifies a measurement trend.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// noiseFloor is the fixed threshold below which a difference counts as
// stable. Not configurable.
const noiseFloor = 0.5

// DefaultTrendWindow is the sliding-window size used when callers have no
// preference.
const DefaultTrendWindow = 7

// Trend classifies a newest-first record list by comparing the mean of the
// most recent windowSize records against the mean of the windowSize records
// before them. With fewer than 2 records the trend is Stable. When there is
// not enough history to fill the previous window, the newest value is
// compared against the oldest directly.
func Trend(records []Record, windowSize int) Direction {
	if len(records) < 2 || windowSize < 1 {
		return Stable
	}

	recent := records
	if len(recent) > windowSize {
		recent = records[:windowSize]
	}
	var previous []Record
	if len(records) > windowSize {
		previous = records[windowSize:]
		if len(previous) > windowSize {
			previous = previous[:windowSize]
		}
	}

	var diff float64
	if len(previous) == 0 {
		diff = records[0].Value - records[len(records)-1].Value
	} else {
		diff = mean(recent) - mean(previous)
	}

	if math.Abs(diff) < noiseFloor {
		return Stable
	}
	if diff > 0 {
		return Increasing
	}
	return Decreasing
}

func mean(records []Record) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Value
	}
	return sum / float64(len(records))
}

// ChartPoint is one plotted value with pre-rendered date labels.
type ChartPoint struct {
	DateLabel     string  `json:"date_label"`
	Value         float64 `json:"value"`
	FullDateLabel string  `json:"full_date_label"`
}

// DefaultChartLimit caps how many points a chart shows by default.
const DefaultChartLimit = 30

// ChartSeries takes up to limit newest records and returns them in
// chronological (oldest-first) order, ready for plotting. Empty input
// yields an empty series.
func ChartSeries(records []Record, limit int) []ChartPoint {
	if limit <= 0 {
		limit = DefaultChartLimit
	}
	if len(records) > limit {
		records = records[:limit]
	}

	points := make([]ChartPoint, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		points = append(points, ChartPoint{
			DateLabel:     r.RecordedAt.Format("Jan 2"),
			Value:         r.Value,
			FullDateLabel: r.RecordedAt.Format("January 2, 2006"),
		})
	}
	return points
}
