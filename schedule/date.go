/*
date.go - Calendar date arithmetic for contract schedules

PURPOSE:
  Provides the Date value type used throughout the schedule engine.
  Rent contracts work at day granularity: a lease starts on a day,
  ends on a day, and increments fire on anniversary days. Date wraps
  time.Time normalized to midnight UTC so comparisons never depend
  on wall-clock components.

KEY CONCEPTS:
  - Date: a concrete calendar day (year, month, day)
  - Month arithmetic: AddMonths/AddYears with standard calendar
    normalization (month overflow carries into years)
  - Year clipping: StartOfYear/EndOfYear + MaxDate/MinDate, used by
    the yearly breakdown to cut a contract at calendar-year edges

SEE ALSO:
  - schedule.go: Contract end date and breakdown algorithms
  - terms.go: TenancyTerms input type
*/
package schedule

import "time"

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// YEAR BOUNDARIES AND CLIPPING
// =============================================================================

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// MonthsBetween returns the inclusive month count between the (year, month)
// of from and the (year, month) of to. Days are ignored: January 31 to
// February 1 spans two months. Returns 0 if to's month precedes from's.
func MonthsBetween(from, to Date) int {
	n := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if n < 0 {
		return 0
	}
	return n
}
