// Package report derives totals, breakdowns and budget adherence from an
// owner's income, expense and budget records.
package report

import (
	"strings"
	"time"

	"github.com/abhishek991-rag/PFM-Backend/internal/models"
)

// Range is a closed UTC interval [Start, End].
type Range struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains reports whether t lies within r, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Epoch is the default range start.
var Epoch = time.Unix(0, 0).UTC()

// NormalizeRange parses optional start and end bounds. A missing start is the
// epoch and a missing end is now. The end is always pushed to 23:59:59.999
// UTC of its calendar day so the whole end day is included.
func NormalizeRange(start, end string, now time.Time) (Range, error) {
	r := Range{Start: Epoch, End: now.UTC()}

	if s := strings.TrimSpace(start); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return Range{}, err
		}
		r.Start = t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := parseInstant(e)
		if err != nil {
			return Range{}, err
		}
		r.End = t
	}
	r.End = EndOfDay(r.End)

	if r.Start.After(r.End) {
		return Range{}, &models.DateRangeError{Reason: "start date cannot be after end date"}
	}
	return r, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the instant in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := parseInstant(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseInstant keeps the offset an RFC 3339 value was written with.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, &models.DateRangeError{Reason: "invalid date format, use YYYY-MM-DD"}
}

// EndOfDay returns 23:59:59.999 UTC of the calendar day t falls on in its own
// location, so an end bound of 2024-01-31T00:00:00+05:30 still means Jan 31.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// Overlaps is the closed-interval test shared by report selection and the
// budget write guard. Touching endpoints overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// RequireBounds rejects a request that omits either range bound.
func RequireBounds(start, end string) error {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return models.NewValidationError("startDate", "please provide start and end dates")
	}
	return nil
}
