package schedule

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func equalTimeRange(a, b TimeRange) bool {
	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}

func equalTimeRangeSlices(a, b []TimeRange) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalTimeRange(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestNewTimeRange_Valid(t *testing.T) {
	start := mustTime(t, 2026, 3, 1, 10, 0)
	end := mustTime(t, 2026, 3, 1, 11, 0)

	tr, err := NewTimeRange(start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tr.Start.Equal(start) || !tr.End.Equal(end) {
		t.Fatalf("expected [%v, %v), got %+v", start, end, tr)
	}
}

func TestNewTimeRange_EndBeforeStart(t *testing.T) {
	start := mustTime(t, 2026, 3, 1, 12, 0)
	end := mustTime(t, 2026, 3, 1, 10, 0)

	if _, err := NewTimeRange(start, end); err == nil {
		t.Fatalf("expected error for inverted bounds, got nil")
	}
}

func TestNewTimeRange_Zero(t *testing.T) {
	if _, err := NewTimeRange(time.Time{}, time.Time{}); err == nil {
		t.Fatalf("expected error for zero times, got nil")
	}
}

func TestWorkdayRange(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	day := time.Date(2026, 3, 2, 23, 30, 0, 0, loc)
	tr := WorkdayRange(day, 10, 18, loc)

	wantStart := time.Date(2026, 3, 2, 10, 0, 0, 0, loc)
	wantEnd := time.Date(2026, 3, 2, 18, 0, 0, 0, loc)
	if !tr.Start.Equal(wantStart) || !tr.End.Equal(wantEnd) {
		t.Fatalf("expected [%v, %v), got %+v", wantStart, wantEnd, tr)
	}
}

func TestSplitToSlots_Hourly(t *testing.T) {
	tr := TimeRange{
		Start: mustTime(t, 2026, 3, 1, 10, 0),
		End:   mustTime(t, 2026, 3, 1, 13, 0),
	}

	slots, err := SplitToSlots(tr, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []TimeRange{
		{Start: mustTime(t, 2026, 3, 1, 10, 0), End: mustTime(t, 2026, 3, 1, 11, 0)},
		{Start: mustTime(t, 2026, 3, 1, 11, 0), End: mustTime(t, 2026, 3, 1, 12, 0)},
		{Start: mustTime(t, 2026, 3, 1, 12, 0), End: mustTime(t, 2026, 3, 1, 13, 0)},
	}
	if !equalTimeRangeSlices(slots, expected) {
		t.Fatalf("expected %+v, got %+v", expected, slots)
	}
}

func TestSplitToSlots_TailDropped(t *testing.T) {
	tr := TimeRange{
		Start: mustTime(t, 2026, 3, 1, 10, 0),
		End:   mustTime(t, 2026, 3, 1, 11, 40),
	}

	slots, err := SplitToSlots(tr, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
}

func TestSplitToSlots_InvalidDuration(t *testing.T) {
	tr := TimeRange{
		Start: mustTime(t, 2026, 3, 1, 10, 0),
		End:   mustTime(t, 2026, 3, 1, 11, 0),
	}

	if _, err := SplitToSlots(tr, 0); err == nil {
		t.Fatalf("expected error for zero slot duration, got nil")
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	a := TimeRange{Start: mustTime(t, 2026, 3, 1, 10, 0), End: mustTime(t, 2026, 3, 1, 11, 0)}
	b := TimeRange{Start: mustTime(t, 2026, 3, 1, 11, 0), End: mustTime(t, 2026, 3, 1, 12, 0)}

	// Touching bounds do not overlap.
	if Overlaps(a, b) {
		t.Fatalf("expected adjacent ranges not to overlap")
	}

	c := TimeRange{Start: mustTime(t, 2026, 3, 1, 10, 30), End: mustTime(t, 2026, 3, 1, 11, 30)}
	if !Overlaps(a, c) {
		t.Fatalf("expected %+v and %+v to overlap", a, c)
	}
}

func TestHasOverlap_ReturnsConflicts(t *testing.T) {
	newRange := TimeRange{Start: mustTime(t, 2026, 3, 1, 10, 30), End: mustTime(t, 2026, 3, 1, 12, 30)}
	existing := []TimeRange{
		{Start: mustTime(t, 2026, 3, 1, 9, 0), End: mustTime(t, 2026, 3, 1, 10, 0)},
		{Start: mustTime(t, 2026, 3, 1, 10, 0), End: mustTime(t, 2026, 3, 1, 11, 0)},
		{Start: mustTime(t, 2026, 3, 1, 12, 0), End: mustTime(t, 2026, 3, 1, 13, 0)},
	}

	overlap, conflicts := HasOverlap(newRange, existing)
	if !overlap {
		t.Fatalf("expected overlap")
	}
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(conflicts))
	}
}
