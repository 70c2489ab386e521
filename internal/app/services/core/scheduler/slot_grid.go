package scheduler

import (
	"fmt"
	"time"
)

// slotGrid generates the bookable (dateKey, timeLabel) grid for a provider's
// daily operating window. It is pure: the same inputs always produce the same
// labels, which is what lets reserve validation simply re-generate the day it
// needs.
type slotGrid struct {
	slotMinutes  int
	dayStartHour int
	dayEndHour   int
}

// DateKey renders t's calendar day as day_month_year, e.g. "5_6_2025".
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// labelsForDay returns the ordered time labels for the given day. For the day
// containing 'now' the grid starts at the first slot boundary at or after
// now, clamped to the window start, so no past or immediate slot is offered.
func (g slotGrid) labelsForDay(day, now time.Time) []string {
	loc := day.Location()
	windowStart := time.Date(day.Year(), day.Month(), day.Day(), g.dayStartHour, 0, 0, 0, loc)
	windowEnd := time.Date(day.Year(), day.Month(), day.Day(), g.dayEndHour, 0, 0, 0, loc)

	start := windowStart
	if sameDay(day, now) {
		earliest := ceilToSlotBoundary(now, g.slotMinutes)
		if earliest.After(start) {
			start = earliest
		}
	}

	step := time.Duration(g.slotMinutes) * time.Minute
	var labels []string
	for t := start; t.Before(windowEnd); t = t.Add(step) {
		labels = append(labels, t.Format("15:04"))
	}
	return labels
}

// containsLabel reports whether timeLabel is on the day's grid at all,
// regardless of reservations.
func (g slotGrid) containsLabel(day, now time.Time, timeLabel string) bool {
	for _, label := range g.labelsForDay(day, now) {
		if label == timeLabel {
			return true
		}
	}
	return false
}

// ceilToSlotBoundary rounds t up to the next multiple of slotMinutes within
// the hour. Only a time exactly on a boundary, down to the second, is kept:
// at 14:30:45 the 14:30 slot has already started and must not be offered.
func ceilToSlotBoundary(t time.Time, slotMinutes int) time.Time {
	onBoundary := t.Second() == 0 && t.Nanosecond() == 0
	t = t.Truncate(time.Minute)
	rem := t.Minute() % slotMinutes
	if rem == 0 && onBoundary {
		return t
	}
	return t.Add(time.Duration(slotMinutes-rem) * time.Minute)
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
