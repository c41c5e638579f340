package finance

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DAY - Calendar-day value (no timezone semantics)
// =============================================================================

// Day is a calendar day. Dates in this system are calendar-day strings
// ("2025-03-14"); Day keeps them comparable without timezone handling.
// The zero Day means "no date".
type Day struct {
	Time time.Time
}

const dayLayout = "2006-01-02"

func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a timestamp to its calendar day as seen in its own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

func Today() Day {
	return DayOf(time.Now())
}

// ParseDay accepts "YYYY-MM-DD" or an RFC 3339 timestamp (truncated to its day).
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dayLayout, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), nil
	}
	return Day{}, &InvalidInputError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
}

// MustParseDay is ParseDay for literals; it panics on malformed input.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(fmt.Sprintf("finance: bad day literal %q", s))
	}
	return d
}

// Comparison
func (d Day) Before(other Day) bool { return d.Time.Before(other.Time) }
func (d Day) After(other Day) bool  { return d.Time.After(other.Time) }
func (d Day) Equal(other Day) bool  { return d.Time.Equal(other.Time) }
func (d Day) IsZero() bool          { return d.Time.IsZero() }

func (d Day) AddDays(n int) Day { return Day{Time: d.Time.AddDate(0, 0, n)} }

// DaysUntil returns the whole number of days from d to other (negative when
// other is earlier).
func (d Day) DaysUntil(other Day) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// MonthLabel is the "YYYY-MM" bucket this day falls into.
func (d Day) MonthLabel() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01")
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(dayLayout)
}
