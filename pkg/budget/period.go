package budget

import (
	"strconv"
	"strings"

	"github.com/centavo/centavo/internal/utils"
)

// Period is the (month, year) pair currently being viewed and aggregated.
// Month is 1-based (January = 1).
type Period struct {
	Month int
	Year  int
}

// CurrentPeriod derives the reporting period from the clock.
func CurrentPeriod(clock utils.Clock) Period {
	now := clock.Now()
	return Period{Month: int(now.Month()), Year: now.Year()}
}

// ContainsMonth reports whether the date's month component equals the
// period's month. The comparison is done on the raw YYYY-MM-DD string rather
// than through time.Parse, so no timezone arithmetic can shift the month.
// Malformed input yields false, never an error: callers use the answer to
// pick which in-memory structure to mutate.
func (p Period) ContainsMonth(date string) bool {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return month == p.Month
}

// ContainsYear reports whether the date's year component equals the period's
// year. Same string-level comparison as ContainsMonth.
func (p Period) ContainsYear(date string) bool {
	parts := strings.Split(date, "-")
	if len(parts) < 1 {
		return false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	return year == p.Year
}

// Contains reports whether the date falls inside this exact period. Equality
// only; a date one month off is outside, with no leniency.
func (p Period) Contains(date string) bool {
	return p.ContainsMonth(date) && p.ContainsYear(date)
}
