package expense

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// FormatDate renders t as a zero-padded YYYY-MM-DD string in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDate validates s as a calendar date and returns its canonical YYYY-MM-DD form.
// Canonical strings sort lexicographically in chronological order.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return FormatDate(t), nil
}

// Month is a calendar month used for range filters.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}

	return MonthOf(t), nil
}

func (m Month) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Start is the first day of the month.
func (m Month) Start() string {
	return FormatDate(m.first())
}

// Next is the first day of the following month, the exclusive upper bound of m.
func (m Month) Next() string {
	return FormatDate(m.first().AddDate(0, 1, 0))
}

// Prev returns the month before m.
func (m Month) Prev() Month {
	return MonthOf(m.first().AddDate(0, -1, 0))
}

// Following returns the month after m.
func (m Month) Following() Month {
	return MonthOf(m.first().AddDate(0, 1, 0))
}

// String renders m as YYYY-MM.
func (m Month) String() string {
	return m.first().Format(monthLayout)
}

// Label renders m for humans, e.g. "October 2026".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}
