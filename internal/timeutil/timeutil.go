// Package timeutil holds small pure helpers for rendering durations and
// timer progress. All functions are stateless.
package timeutil

import (
	"fmt"
	"time"
)

// FormatSeconds renders a second count as "m:ss" (e.g. 90 → "1:30").
// Negative values are treated as zero.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatElapsed renders the wall-clock time between start and now as
// "h:mm:ss", or "m:ss" under an hour.
func FormatElapsed(start, now time.Time) string {
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Progress returns the completed fraction of a countdown as a percentage
// in [0,100]. A zero initial duration yields 0 to avoid division by zero.
func Progress(initialSeconds, remainingSeconds int) float64 {
	if initialSeconds <= 0 {
		return 0
	}
	p := float64(initialSeconds-remainingSeconds) / float64(initialSeconds) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
