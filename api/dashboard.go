/*
dashboard.go - Summary and alert handlers

PURPOSE:
  The landlord's home screen: counts, this month's expected rent versus
  what actually came in, and the open alerts from the scanner.

EXPECTED RENT:
  Sum of EffectiveMonthlyRent over active tenants whose contract covers
  the first of the current month. Tenancies without a computable end
  date still count while their start date has passed.

ENDPOINTS:
  GET  /api/dashboard                Summary numbers
  GET  /api/alerts                   List alerts (?all=true includes acknowledged)
  POST /api/alerts/{id}/ack          Acknowledge an alert

SEE ALSO:
  - scheduler.go: Where alerts come from
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gharbeti/rentroll/schedule"
)

// GetDashboard returns the summary numbers for the home screen.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	properties, activeTenants, openAlerts, err := h.Store.Counts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load counts", err)
		return
	}

	today := schedule.Today()
	monthStart := schedule.NewDate(today.Year(), today.Month(), 1)
	monthEnd := monthStart.AddMonths(1).AddDays(-1)

	expected, err := h.expectedMonthlyRent(r, monthStart)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute expected rent", err)
		return
	}

	received, err := h.Store.SumPaymentsPaidBetween(ctx, monthStart.Time, monthEnd.Time)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to sum payments", err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardDTO{
		Properties:        properties,
		ActiveTenants:     activeTenants,
		OpenAlerts:        openAlerts,
		TodayBS:           bsLabel(time.Now()),
		MonthExpectedRent: expected.String(),
		MonthReceivedRent: received.String(),
	})
}

// expectedMonthlyRent totals the effective rent of every active tenancy
// whose contract covers the given day.
func (h *Handler) expectedMonthlyRent(r *http.Request, day schedule.Date) (decimal.Decimal, error) {
	tenants, err := h.Store.ListTenants(r.Context(), "")
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, t := range tenants {
		if !t.Active {
			continue
		}
		terms := schedule.FromRecord(schedule.TermsRecord{
			ContractStart:          t.ContractStart,
			DurationYears:          t.DurationYears,
			DurationMonths:         t.DurationMonths,
			Frequency:              t.BillingFrequency,
			MonthlyRent:            t.MonthlyRent,
			IncrementPercent:       t.IncrementPercent,
			IncrementIntervalYears: t.IncrementIntervalYears,
		})
		if terms.ContractStart.IsZero() || terms.ContractStart.After(day) {
			continue
		}
		if end, ok := terms.EndDate(); ok && end.Before(day) {
			continue
		}
		total = total.Add(schedule.EffectiveMonthlyRent(terms, day))
	}
	return total, nil
}

// ListAlerts returns open alerts, or all alerts with ?all=true.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	openOnly := r.URL.Query().Get("all") != "true"

	alerts, err := h.Store.ListAlerts(r.Context(), openOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list alerts", err)
		return
	}

	dtos := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = toAlertDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AcknowledgeAlert marks an alert as seen.
func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Store.AcknowledgeAlert(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to acknowledge alert", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Alert not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
