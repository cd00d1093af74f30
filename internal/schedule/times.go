// Package schedule holds the time arithmetic behind slot generation:
// workday windows, hourly splitting, and overlap checks. All ranges are
// half-open [Start, End).
package schedule

import (
	"errors"
	"time"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// WorkdayRange is the bookable window [startHour, endHour) of the calendar
// day containing day, in loc.
func WorkdayRange(day time.Time, startHour, endHour int, loc *time.Location) TimeRange {
	d := day.In(loc)
	return TimeRange{
		Start: time.Date(d.Year(), d.Month(), d.Day(), startHour, 0, 0, 0, loc),
		End:   time.Date(d.Year(), d.Month(), d.Day(), endHour, 0, 0, 0, loc),
	}
}

// SplitToSlots cuts tr into consecutive slots of fixed duration. A tail
// shorter than slotDuration is dropped.
func SplitToSlots(tr TimeRange, slotDuration time.Duration) ([]TimeRange, error) {
	if slotDuration <= 0 {
		return nil, ErrSlotDuration
	}
	if !tr.End.After(tr.Start) {
		return []TimeRange{}, nil
	}

	var slots []TimeRange
	for cur := tr.Start; !cur.Add(slotDuration).After(tr.End); cur = cur.Add(slotDuration) {
		slots = append(slots, TimeRange{Start: cur, End: cur.Add(slotDuration)})
	}
	return slots, nil
}

// Overlaps reports whether two half-open ranges intersect.
func Overlaps(a, b TimeRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// HasOverlap checks newRange against existing and returns the conflicts.
func HasOverlap(newRange TimeRange, existing []TimeRange) (bool, []TimeRange) {
	var conflicts []TimeRange
	for _, tr := range existing {
		if Overlaps(newRange, tr) {
			conflicts = append(conflicts, tr)
		}
	}
	return len(conflicts) > 0, conflicts
}
