package analytics

import "time"

// =============================================================================
// PERIOD - Inclusive date window for aggregation
// =============================================================================

// Period is the time boundary for window bucketing. Both ends are inclusive.
//
// Examples:
//   - Current calendar month: Mar 1 - Mar 31
//   - Custom range: any [from, to]
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within [Start, End]. A zero date is
// never contained: records without a usable date stay out of every window.
func (p Period) Contains(d Date) bool {
	if d.IsZero() {
		return false
	}
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// CALENDAR MONTH WINDOWS
// =============================================================================

// MonthOf returns the calendar month containing the given date.
func MonthOf(d Date) Period {
	return Period{
		Start: StartOfMonth(d.Year(), d.Month()),
		End:   EndOfMonth(d.Year(), d.Month()),
	}
}

// PreviousMonthOf returns the calendar month immediately preceding the one
// containing the given date.
func PreviousMonthOf(d Date) Period {
	return MonthOf(StartOfMonth(d.Year(), d.Month()).AddDays(-1))
}

func StartOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}
