/*
terms.go - Tenancy contract terms and the record boundary

PURPOSE:
  Defines TenancyTerms, the validated input to the schedule engine,
  and the mapping from loosely-typed stored records into it. The
  engine itself never sees nullable or free-text fields: everything
  is coerced here, once, at the boundary.

BILLING FREQUENCY:
  Rent can be collected monthly, every two months, quarterly, twice a
  year, or yearly. Frequencies always originate from a closed selector
  upstream, so an unrecognized tag falls back to monthly instead of
  failing - a deliberate permissive default, not an error path.

COERCION RULES (FromRecord):
  - Unparseable start date      -> zero Date (end date then not computable)
  - Negative years/months       -> 0
  - Negative rent or percent    -> 0
  - Negative increment interval -> 0 (disables increments)

SEE ALSO:
  - schedule.go: The computations consuming TenancyTerms
  - date.go: Date type
*/
package schedule

import "github.com/shopspring/decimal"

// =============================================================================
// BILLING FREQUENCY
// =============================================================================

// BillingFrequency is how often rent falls due.
type BillingFrequency string

const (
	FreqMonthly      BillingFrequency = "monthly"
	FreqBiMonthly    BillingFrequency = "bi-monthly"
	FreqTriMonthly   BillingFrequency = "tri-monthly"
	FreqSemiAnnually BillingFrequency = "semi-annually"
	FreqYearly       BillingFrequency = "yearly"
)

// FrequencyMonths returns the number of months in one billing period.
// Unrecognized tags fall back to monthly.
func FrequencyMonths(f BillingFrequency) int {
	switch f {
	case FreqMonthly:
		return 1
	case FreqBiMonthly:
		return 2
	case FreqTriMonthly:
		return 3
	case FreqSemiAnnually:
		return 6
	case FreqYearly:
		return 12
	default:
		return 1
	}
}

// =============================================================================
// TENANCY TERMS - Validated engine input
// =============================================================================

// TenancyTerms are the agreed lease parameters for one tenant, immutable
// for the duration of a calculation.
type TenancyTerms struct {
	ContractStart Date
	// DurationMonths is the total lease length (years*12 + months).
	DurationMonths int
	Frequency      BillingFrequency
	// BaseMonthlyRent is the rent in effect at ContractStart.
	BaseMonthlyRent decimal.Decimal
	// IncrementPercent is applied once per full increment interval elapsed.
	IncrementPercent decimal.Decimal
	// IncrementIntervalYears of 0 disables increments regardless of percent.
	IncrementIntervalYears int
}

// TermsRecord is the loosely-typed shape a tenancy row has in storage or
// transport: string date, split duration, free-text frequency tag.
type TermsRecord struct {
	ContractStart          string
	DurationYears          int
	DurationMonths         int
	Frequency              string
	MonthlyRent            decimal.Decimal
	IncrementPercent       decimal.Decimal
	IncrementIntervalYears int
}

// FromRecord maps a stored record into strict TenancyTerms, coercing
// anything out of range. The engine assumes non-negative integers and
// amounts; this is the single place that guarantee is established.
func FromRecord(r TermsRecord) TenancyTerms {
	start, err := ParseDate(r.ContractStart)
	if err != nil {
		start = Date{}
	}

	years, months := r.DurationYears, r.DurationMonths
	if years < 0 {
		years = 0
	}
	if months < 0 {
		months = 0
	}

	interval := r.IncrementIntervalYears
	if interval < 0 {
		interval = 0
	}

	rent := r.MonthlyRent
	if rent.IsNegative() {
		rent = decimal.Zero
	}
	pct := r.IncrementPercent
	if pct.IsNegative() {
		pct = decimal.Zero
	}

	return TenancyTerms{
		ContractStart:          start,
		DurationMonths:         years*12 + months,
		Frequency:              BillingFrequency(r.Frequency),
		BaseMonthlyRent:        rent,
		IncrementPercent:       pct,
		IncrementIntervalYears: interval,
	}
}
