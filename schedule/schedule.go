/*
schedule.go - Rent schedule computations

PURPOSE:
  Computes everything a tenancy's contract terms imply: the contract
  end date, the rent payable per billing period, the effective monthly
  rent at any point in time under compounding periodic increments, and
  a year-by-year breakdown of months billed and totals due.

KEY DESIGN POINTS:
  - Pure functions. No I/O, no state, no clock reads. Callers pass
    every date in; repeated calls with the same inputs return the
    same outputs.
  - Inclusive end-date convention: a 1-year contract starting Jan 1
    ends Dec 31, not Jan 1 of the following year.
  - Inclusive anniversary counting: an increment anniversary that
    falls exactly on the reference date counts as elapsed. This
    mirrors the established business behavior; see the note on
    EffectiveMonthlyRent before changing it.
  - decimal.Decimal throughout. Compounding by an integer power is
    exact; no rounding is applied here. Rounding, if any, belongs to
    the presentation layer.

EXAMPLE:
  terms := schedule.TenancyTerms{
      ContractStart:          schedule.NewDate(2020, time.January, 1),
      DurationMonths:         36,
      Frequency:              schedule.FreqMonthly,
      BaseMonthlyRent:        decimal.NewFromInt(10000),
      IncrementPercent:       decimal.NewFromInt(10),
      IncrementIntervalYears: 2,
  }
  end, _ := terms.EndDate()                        // 2022-12-31
  rent := schedule.EffectiveMonthlyRent(terms, at) // 10000 or 11000
  rows := schedule.YearlyBreakdown(terms)          // one row per year

SEE ALSO:
  - terms.go: TenancyTerms and the record boundary
  - date.go: Date arithmetic
*/
package schedule

import "github.com/shopspring/decimal"

// =============================================================================
// CONTRACT END DATE
// =============================================================================

// ContractEndDate returns the inclusive last day of a lease that starts on
// start and runs for the given years and months: start advanced by the
// duration, minus one day. A zero duration has no computable end; ok is
// false and the returned Date must not be used (never a sentinel date).
func ContractEndDate(start Date, years, months int) (Date, bool) {
	if years == 0 && months == 0 {
		return Date{}, false
	}
	return start.AddYears(years).AddMonths(months).AddDays(-1), true
}

// EndDate returns the contract's inclusive end date, or ok=false when the
// duration is zero or the start date is absent.
func (t TenancyTerms) EndDate() (Date, bool) {
	if t.ContractStart.IsZero() {
		return Date{}, false
	}
	return ContractEndDate(t.ContractStart, 0, t.DurationMonths)
}

// =============================================================================
// EFFECTIVE MONTHLY RENT - Compounding periodic increments
// =============================================================================

// EffectiveMonthlyRent returns the monthly rent in effect at the given date:
// the base rent compounded by (1 + pct/100) once per full increment interval
// elapsed since the contract start. An anniversary exactly equal to at counts
// as elapsed (inclusive). With a zero interval or zero percent the rent is
// constant at the base for the whole contract.
//
// NOTE: the inclusive anniversary rule means rent steps up ON the anniversary
// day, not the day after. Flagged for product-owner confirmation; preserve
// as-is until the rule is revisited.
func EffectiveMonthlyRent(t TenancyTerms, at Date) decimal.Decimal {
	if t.IncrementIntervalYears == 0 || t.IncrementPercent.IsZero() {
		return t.BaseMonthlyRent
	}

	elapsed := 0
	next := t.ContractStart.AddYears(t.IncrementIntervalYears)
	for next.BeforeOrEqual(at) {
		elapsed++
		next = next.AddYears(t.IncrementIntervalYears)
	}
	if elapsed == 0 {
		return t.BaseMonthlyRent
	}

	factor := decimal.NewFromInt(1).Add(t.IncrementPercent.Div(decimal.NewFromInt(100)))
	return t.BaseMonthlyRent.Mul(factor.Pow(decimal.NewFromInt(int64(elapsed))))
}

// PeriodRent returns the amount payable per billing period at the given
// date: the effective monthly rent times the months per period.
func PeriodRent(t TenancyTerms, at Date) decimal.Decimal {
	return EffectiveMonthlyRent(t, at).Mul(decimal.NewFromInt(int64(FrequencyMonths(t.Frequency))))
}

// =============================================================================
// YEARLY BREAKDOWN - Per-calendar-year months and totals
// =============================================================================

// YearRow is one calendar year's share of a contract: how many contract
// months fall in that year and what they cost at that year's rent.
type YearRow struct {
	Year        int
	Months      int
	MonthlyRent decimal.Decimal
	Total       decimal.Decimal
}

// YearlyBreakdown walks every calendar year the contract touches, clips the
// contract's active span to that year, and emits one row per non-empty
// window. The monthly rent for a row is sampled at the first day of the
// clipped start's month. The sum of Months across rows equals the contract
// duration in months - no gaps or double counting at year boundaries.
func YearlyBreakdown(t TenancyTerms) []YearRow {
	end, ok := t.EndDate()
	if !ok {
		return nil
	}

	var rows []YearRow
	for year := t.ContractStart.Year(); year <= end.Year(); year++ {
		clipStart := MaxDate(t.ContractStart, StartOfYear(year))
		clipEnd := MinDate(end, EndOfYear(year))
		if clipStart.After(clipEnd) {
			continue
		}

		months := MonthsBetween(clipStart, clipEnd)
		rent := EffectiveMonthlyRent(t, NewDate(clipStart.Year(), clipStart.Month(), 1))
		rows = append(rows, YearRow{
			Year:        year,
			Months:      months,
			MonthlyRent: rent,
			Total:       rent.Mul(decimal.NewFromInt(int64(months))),
		})
	}
	return rows
}
