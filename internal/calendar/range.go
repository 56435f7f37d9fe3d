package calendar

import (
	"fmt"
	"time"
)

// GridSize is the fixed month-view cell count: 6 rows by 7 columns.
const GridSize = 42

const daysPerWeek = 7

// MonthGrid returns the 42 consecutive dates rendered for the month
// containing anchor. The natural span runs from the Sunday on/before the 1st
// to the Saturday on/after the last day; when that span is shorter than 42
// days, whole extra weeks are distributed before and after, with the leading
// share rounded down by integer division by two.
func MonthGrid(anchor time.Time) []time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, daysPerWeek-1-int(last.Weekday()))

	span := int(end.Sub(start).Hours()/24) + 1
	missingWeeks := (GridSize - span) / daysPerWeek
	beforeWeeks := missingWeeks / 2
	start = start.AddDate(0, 0, -beforeWeeks*daysPerWeek)

	grid := make([]time.Time, GridSize)
	for i := range grid {
		grid[i] = start.AddDate(0, 0, i)
	}
	return grid
}

// WeekRange returns the 7 days from the Sunday through the Saturday
// containing anchor.
func WeekRange(anchor time.Time) []time.Time {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	sunday := day.AddDate(0, 0, -int(day.Weekday()))

	week := make([]time.Time, daysPerWeek)
	for i := range week {
		week[i] = sunday.AddDate(0, 0, i)
	}
	return week
}

// PrevMonth shifts the anchor back one calendar month.
func PrevMonth(anchor time.Time) time.Time {
	return anchor.AddDate(0, -1, 0)
}

// NextMonth shifts the anchor forward one calendar month.
func NextMonth(anchor time.Time) time.Time {
	return anchor.AddDate(0, 1, 0)
}

// Timeline positions event blocks on the 00:00-23:59 day view.
type Timeline struct {
	// HourHeight is the rendered height of one hour.
	HourHeight int
}

// Block computes the top offset and height of an event running from start to
// end: top = startHour*H + startMinute/60*H, height = durationMinutes/60*H.
func (tl Timeline) Block(start, end time.Time) (top, height float64) {
	h := float64(tl.HourHeight)
	top = float64(start.Hour())*h + float64(start.Minute())/60*h
	height = end.Sub(start).Minutes() / 60 * h
	return top, height
}

// Anchor layouts accepted on the command line.
var anchorLayouts = []string{"2006-01-02", "2006-01"}

// ParseAnchor parses a user-supplied anchor date. An empty string anchors on
// today. Unparseable input yields an error, never a panic.
func ParseAnchor(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	for _, layout := range anchorLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want yyyy-mm-dd or yyyy-mm)", s)
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
