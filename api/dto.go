/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the store records and schedule engine types from the external API
  contract, allowing:
  - Field renaming without breaking clients
  - API-specific formatting (amounts as strings, dual AD/BS dates)
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  All money fields are JSON strings ("18000", "12100.50"). Floats would
  round paisa; clients format, never compute.

DATES:
  Gregorian dates are ISO strings (YYYY-MM-DD). Wherever a date is shown
  to the landlord, a Bikram Sambat rendering rides along in a *_bs field.

SEE ALSO:
  - handlers.go: Uses these types
  - nepali/calendar.go: BS conversions
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gharbeti/rentroll/nepali"
	"github.com/gharbeti/rentroll/schedule"
	"github.com/gharbeti/rentroll/store/sqlite"
)

const dateFormat = "2006-01-02"

// notCalculated is shown where a contract end date cannot be derived
// because the lease duration is missing.
const notCalculated = "Not calculated"

// =============================================================================
// PROPERTY TYPES
// =============================================================================

// PropertyDTO represents a property in API responses.
type PropertyDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Kind      string `json:"kind"`
	Floors    int    `json:"floors"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SavePropertyRequest is the request to create or update a property.
type SavePropertyRequest struct {
	ID      string `json:"id,omitempty"` // server assigns when empty
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Kind    string `json:"kind"`
	Floors  int    `json:"floors"`
	Notes   string `json:"notes"`
}

// =============================================================================
// TENANT TYPES
// =============================================================================

// TenantDTO represents a tenancy in API responses, contract terms included.
type TenantDTO struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	UnitLabel  string `json:"unit_label,omitempty"`

	ContractStart          string `json:"contract_start,omitempty"`
	ContractStartBS        string `json:"contract_start_bs,omitempty"`
	DurationYears          int    `json:"duration_years"`
	DurationMonths         int    `json:"duration_months"`
	BillingFrequency       string `json:"billing_frequency"`
	MonthlyRent            string `json:"monthly_rent"`
	IncrementPercent       string `json:"increment_percent"`
	IncrementIntervalYears int    `json:"increment_interval_years"`
	AdvanceAmount          string `json:"advance_amount"`

	Active    bool   `json:"active"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SaveTenantRequest is the request to create or update a tenancy.
type SaveTenantRequest struct {
	ID         string `json:"id,omitempty"`
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	UnitLabel  string `json:"unit_label"`

	ContractStart          string          `json:"contract_start"`
	DurationYears          int             `json:"duration_years"`
	DurationMonths         int             `json:"duration_months"`
	BillingFrequency       string          `json:"billing_frequency"`
	MonthlyRent            decimal.Decimal `json:"monthly_rent"`
	IncrementPercent       decimal.Decimal `json:"increment_percent"`
	IncrementIntervalYears int             `json:"increment_interval_years"`
	AdvanceAmount          decimal.Decimal `json:"advance_amount"`

	Active *bool  `json:"active,omitempty"` // nil defaults to true
	Notes  string `json:"notes"`
}

// =============================================================================
// SCHEDULE TYPES
// =============================================================================

// ScheduleDTO is the full rent schedule for one tenancy.
type ScheduleDTO struct {
	TenantID        string `json:"tenant_id"`
	ContractStart   string `json:"contract_start,omitempty"`
	ContractStartBS string `json:"contract_start_bs,omitempty"`

	// EndDate is an ISO date, or "Not calculated" when the lease
	// duration is zero or the start date is missing.
	EndDate   string `json:"end_date"`
	EndDateBS string `json:"end_date_bs,omitempty"`

	BillingFrequency string `json:"billing_frequency"`
	FrequencyMonths  int    `json:"frequency_months"`

	// Rent as of the request date.
	CurrentMonthlyRent string `json:"current_monthly_rent"`
	CurrentPeriodRent  string `json:"current_period_rent"`

	YearlyBreakdown []YearRowDTO `json:"yearly_breakdown"`
}

// YearRowDTO is one calendar year of the breakdown table.
type YearRowDTO struct {
	Year        int    `json:"year"`
	Months      int    `json:"months"`
	MonthlyRent string `json:"monthly_rent"`
	Total       string `json:"total"`
}

// =============================================================================
// PAYMENT TYPES
// =============================================================================

// PaymentDTO represents a recorded rent payment.
type PaymentDTO struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	PropertyID  string `json:"property_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Amount      string `json:"amount"`
	PaidOn      string `json:"paid_on"`
	PaidOnBS    string `json:"paid_on_bs,omitempty"`
	Method      string `json:"method,omitempty"`
	Note        string `json:"note,omitempty"`
}

// SavePaymentRequest is the request to record or correct a payment.
type SavePaymentRequest struct {
	ID          string          `json:"id,omitempty"`
	TenantID    string          `json:"tenant_id"`
	PropertyID  string          `json:"property_id"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Amount      decimal.Decimal `json:"amount"`
	PaidOn      string          `json:"paid_on"`
	Method      string          `json:"method"`
	Note        string          `json:"note"`
}

// =============================================================================
// DOCUMENT / ALERT / DASHBOARD TYPES
// =============================================================================

// DocumentDTO represents uploaded document metadata.
type DocumentDTO struct {
	ID          string `json:"id"`
	OwnerKind   string `json:"owner_kind"`
	OwnerID     string `json:"owner_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url"`
	UploadedAt  string `json:"uploaded_at"`
}

// AlertDTO represents a scanner-generated notice.
type AlertDTO struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenant_id"`
	Kind         string `json:"kind"`
	Message      string `json:"message"`
	DueDate      string `json:"due_date"`
	DueDateBS    string `json:"due_date_bs,omitempty"`
	Acknowledged bool   `json:"acknowledged"`
}

// DashboardDTO is the landlord's summary screen.
type DashboardDTO struct {
	Properties    int    `json:"properties"`
	ActiveTenants int    `json:"active_tenants"`
	OpenAlerts    int    `json:"open_alerts"`
	TodayBS       string `json:"today_bs"`

	// Current calendar month, expected vs received.
	MonthExpectedRent string `json:"month_expected_rent"`
	MonthReceivedRent string `json:"month_received_rent"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPropertyDTO(p sqlite.Property) PropertyDTO {
	return PropertyDTO{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		City:      p.City,
		Kind:      p.Kind,
		Floors:    p.Floors,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toTenantDTO(t sqlite.Tenant) TenantDTO {
	return TenantDTO{
		ID:         t.ID,
		PropertyID: t.PropertyID,
		Name:       t.Name,
		Phone:      t.Phone,
		Email:      t.Email,
		UnitLabel:  t.UnitLabel,

		ContractStart:          t.ContractStart,
		ContractStartBS:        bsLabelISO(t.ContractStart),
		DurationYears:          t.DurationYears,
		DurationMonths:         t.DurationMonths,
		BillingFrequency:       t.BillingFrequency,
		MonthlyRent:            t.MonthlyRent.String(),
		IncrementPercent:       t.IncrementPercent.String(),
		IncrementIntervalYears: t.IncrementIntervalYears,
		AdvanceAmount:          t.AdvanceAmount.String(),

		Active:    t.Active,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentDTO(p sqlite.Payment) PaymentDTO {
	return PaymentDTO{
		ID:          p.ID,
		TenantID:    p.TenantID,
		PropertyID:  p.PropertyID,
		PeriodStart: p.PeriodStart.Format(dateFormat),
		PeriodEnd:   p.PeriodEnd.Format(dateFormat),
		Amount:      p.Amount.String(),
		PaidOn:      p.PaidOn.Format(dateFormat),
		PaidOnBS:    bsLabel(p.PaidOn),
		Method:      p.Method,
		Note:        p.Note,
	}
}

func toDocumentDTO(d sqlite.Document) DocumentDTO {
	return DocumentDTO{
		ID:          d.ID,
		OwnerKind:   d.OwnerKind,
		OwnerID:     d.OwnerID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		URL:         d.URL,
		UploadedAt:  d.UploadedAt.Format(time.RFC3339),
	}
}

func toAlertDTO(a sqlite.Alert) AlertDTO {
	return AlertDTO{
		ID:           a.ID,
		TenantID:     a.TenantID,
		Kind:         a.Kind,
		Message:      a.Message,
		DueDate:      a.DueDate.Format(dateFormat),
		DueDateBS:    bsLabel(a.DueDate),
		Acknowledged: a.Acknowledged,
	}
}

// buildScheduleDTO runs the schedule engine for one tenancy as of a
// given date and shapes the result for clients.
func buildScheduleDTO(t sqlite.Tenant, asOf schedule.Date) ScheduleDTO {
	terms := schedule.FromRecord(schedule.TermsRecord{
		ContractStart:          t.ContractStart,
		DurationYears:          t.DurationYears,
		DurationMonths:         t.DurationMonths,
		Frequency:              t.BillingFrequency,
		MonthlyRent:            t.MonthlyRent,
		IncrementPercent:       t.IncrementPercent,
		IncrementIntervalYears: t.IncrementIntervalYears,
	})

	dto := ScheduleDTO{
		TenantID:         t.ID,
		ContractStart:    t.ContractStart,
		ContractStartBS:  bsLabelISO(t.ContractStart),
		BillingFrequency: string(terms.Frequency),
		FrequencyMonths:  schedule.FrequencyMonths(terms.Frequency),

		CurrentMonthlyRent: schedule.EffectiveMonthlyRent(terms, asOf).String(),
		CurrentPeriodRent:  schedule.PeriodRent(terms, asOf).String(),
	}

	end, ok := terms.EndDate()
	if !ok {
		dto.EndDate = notCalculated
	} else {
		dto.EndDate = end.String()
		dto.EndDateBS = bsLabel(end.Time)
	}

	rows := schedule.YearlyBreakdown(terms)
	dto.YearlyBreakdown = make([]YearRowDTO, len(rows))
	for i, row := range rows {
		dto.YearlyBreakdown[i] = YearRowDTO{
			Year:        row.Year,
			Months:      row.Months,
			MonthlyRent: row.MonthlyRent.String(),
			Total:       row.Total.String(),
		}
	}
	return dto
}

// bsLabel renders a Gregorian date in Bikram Sambat, empty when the date
// falls outside the conversion tables.
func bsLabel(t time.Time) string {
	bs, err := nepali.FromGregorian(t)
	if err != nil {
		return ""
	}
	return bs.Nepali()
}

func bsLabelISO(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(dateFormat, iso)
	if err != nil {
		return ""
	}
	return bsLabel(t)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
