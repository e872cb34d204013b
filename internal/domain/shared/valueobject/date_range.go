package valueobject

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used across the dataset.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

// MinDate returns the earlier of two dates.
func MinDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of two dates.
func MaxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// DateRange is an inclusive range of calendar days. A zero-length range
// (Start == End) holds exactly one day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a range and rejects inverted bounds.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if r.IsInverted() {
		return DateRange{}, fmt.Errorf("date range %s is inverted", r)
	}
	return r, nil
}

// YearRange returns 1 Jan to 31 Dec of the given year.
func YearRange(year int) DateRange {
	return DateRange{Start: Date(year, time.January, 1), End: Date(year, time.December, 31)}
}

// IsInverted reports whether Start is after End.
func (r DateRange) IsInverted() bool {
	return r.Start.After(r.End)
}

// Days returns the number of days in the range, zero when inverted.
func (r DateRange) Days() int {
	if r.IsInverted() {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Covers reports whether other lies entirely inside r.
func (r DateRange) Covers(other DateRange) bool {
	return r.Contains(other.Start) && r.Contains(other.End)
}

// Intersect returns the overlap of two ranges; ok is false when they do not overlap.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	out := DateRange{Start: MaxDate(r.Start, other.Start), End: MinDate(r.End, other.End)}
	return out, !out.IsInverted()
}

// ClipEnd caps the range at end; ok is false when nothing is left.
func (r DateRange) ClipEnd(end time.Time) (DateRange, bool) {
	out := DateRange{Start: r.Start, End: MinDate(r.End, end)}
	return out, !out.IsInverted()
}

// String formats the range as "YYYY-MM-DD..YYYY-MM-DD".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
