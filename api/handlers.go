/*
handlers.go - HTTP API handlers for the rent-roll service

PURPOSE:
  Exposes property, tenancy, payment, and schedule operations via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  the schedule engine and store.

ENDPOINTS:
  Properties:
    GET    /api/properties             List all properties
    POST   /api/properties             Create property
    GET    /api/properties/{id}        Get property
    PUT    /api/properties/{id}        Update property
    DELETE /api/properties/{id}        Delete property

  Tenants:
    GET    /api/tenants                List tenants (?property_id= filters)
    POST   /api/tenants                Create tenancy
    GET    /api/tenants/{id}           Get tenancy
    PUT    /api/tenants/{id}           Update tenancy
    DELETE /api/tenants/{id}           Delete tenancy
    GET    /api/tenants/{id}/schedule  Rent schedule (?as_of= overrides today)

  Payments:
    GET    /api/payments               List payments (?tenant_id= filters)
    POST   /api/payments               Record payment
    GET    /api/payments/{id}          Get payment
    DELETE /api/payments/{id}          Delete payment

  Documents, dashboard, and alerts live in their own files.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Files: Document blob storage

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Single-landlord deployment behind a trusted network. No authentication
  middleware; adding one is a router concern, not a handler concern.

SEE ALSO:
  - dto.go: Request/response data structures
  - documents.go, dashboard.go: Remaining endpoint groups
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gharbeti/rentroll/schedule"
	"github.com/gharbeti/rentroll/storage"
	"github.com/gharbeti/rentroll/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Files storage.Storage

	// Track currently loaded demo scenario
	currentScenario string
}

// NewHandler creates a new handler over the given store and blob storage.
func NewHandler(store *sqlite.Store, files storage.Storage) *Handler {
	return &Handler{Store: store, Files: files}
}

// =============================================================================
// PROPERTY HANDLERS
// =============================================================================

// ListProperties returns all properties.
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.Store.ListProperties(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}

	dtos := make([]PropertyDTO, len(properties))
	for i, p := range properties {
		dtos[i] = toPropertyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProperty returns a single property.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get property", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Property not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyDTO(*p))
}

// CreateProperty creates a new property.
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req SavePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Property name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	p := propertyFromRequest(req)
	if err := h.Store.SaveProperty(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create property", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPropertyDTO(p))
}

// UpdateProperty updates an existing property.
func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetProperty(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get property", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Property not found", nil)
		return
	}

	var req SavePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = id

	p := propertyFromRequest(req)
	p.CreatedAt = existing.CreatedAt
	if err := h.Store.SaveProperty(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update property", err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyDTO(p))
}

// DeleteProperty removes a property.
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProperty(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete property", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func propertyFromRequest(req SavePropertyRequest) sqlite.Property {
	kind := req.Kind
	if kind == "" {
		kind = "house"
	}
	floors := req.Floors
	if floors < 1 {
		floors = 1
	}
	return sqlite.Property{
		ID:      req.ID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Kind:    kind,
		Floors:  floors,
		Notes:   req.Notes,
	}
}

// =============================================================================
// TENANT HANDLERS
// =============================================================================

// ListTenants returns tenancies, optionally filtered by property.
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Store.ListTenants(r.Context(), r.URL.Query().Get("property_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tenants", err)
		return
	}

	dtos := make([]TenantDTO, len(tenants))
	for i, t := range tenants {
		dtos[i] = toTenantDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTenant returns a single tenancy.
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.Store.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get tenant", err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "Tenant not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toTenantDTO(*t))
}

// CreateTenant creates a new tenancy.
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req SaveTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Tenant name is required", nil)
		return
	}
	if req.PropertyID == "" {
		writeError(w, http.StatusBadRequest, "property_id is required", nil)
		return
	}
	if req.ContractStart != "" {
		if _, err := time.Parse(dateFormat, req.ContractStart); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid contract_start format (use YYYY-MM-DD)", err)
			return
		}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	t := tenantFromRequest(req)
	if err := h.Store.SaveTenant(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create tenant", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTenantDTO(t))
}

// UpdateTenant updates an existing tenancy.
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetTenant(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get tenant", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Tenant not found", nil)
		return
	}

	var req SaveTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ContractStart != "" {
		if _, err := time.Parse(dateFormat, req.ContractStart); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid contract_start format (use YYYY-MM-DD)", err)
			return
		}
	}
	req.ID = id

	t := tenantFromRequest(req)
	t.CreatedAt = existing.CreatedAt
	if err := h.Store.SaveTenant(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update tenant", err)
		return
	}
	writeJSON(w, http.StatusOK, toTenantDTO(t))
}

// DeleteTenant removes a tenancy.
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTenant(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete tenant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func tenantFromRequest(req SaveTenantRequest) sqlite.Tenant {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	frequency := req.BillingFrequency
	if frequency == "" {
		frequency = string(schedule.FreqMonthly)
	}
	return sqlite.Tenant{
		ID:         req.ID,
		PropertyID: req.PropertyID,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		UnitLabel:  req.UnitLabel,

		ContractStart:          req.ContractStart,
		DurationYears:          req.DurationYears,
		DurationMonths:         req.DurationMonths,
		BillingFrequency:       frequency,
		MonthlyRent:            req.MonthlyRent,
		IncrementPercent:       req.IncrementPercent,
		IncrementIntervalYears: req.IncrementIntervalYears,
		AdvanceAmount:          req.AdvanceAmount,

		Active: active,
		Notes:  req.Notes,
	}
}

// =============================================================================
// SCHEDULE HANDLER
// =============================================================================

// GetTenantSchedule returns the full rent schedule for a tenancy: end
// date, current effective rent, and the per-year breakdown. An as_of
// query parameter overrides "today" for the effective-rent fields.
func (h *Handler) GetTenantSchedule(w http.ResponseWriter, r *http.Request) {
	t, err := h.Store.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get tenant", err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "Tenant not found", nil)
		return
	}

	asOf := schedule.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		parsed, err := schedule.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
			return
		}
		asOf = parsed
	}

	writeJSON(w, http.StatusOK, buildScheduleDTO(*t, asOf))
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns payments, optionally filtered by tenant.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Store.ListPayments(r.Context(), r.URL.Query().Get("tenant_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayment returns a single payment.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get payment", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(*p))
}

// CreatePayment records a rent payment.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req SavePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required", nil)
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		writeError(w, http.StatusBadRequest, "Amount must be positive", nil)
		return
	}

	periodStart, err := time.Parse(dateFormat, req.PeriodStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period_start format (use YYYY-MM-DD)", err)
		return
	}
	periodEnd, err := time.Parse(dateFormat, req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period_end format (use YYYY-MM-DD)", err)
		return
	}
	if periodEnd.Before(periodStart) {
		writeError(w, http.StatusBadRequest, "period_end is before period_start", nil)
		return
	}
	paidOn, err := time.Parse(dateFormat, req.PaidOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid paid_on format (use YYYY-MM-DD)", err)
		return
	}

	tenant, err := h.Store.GetTenant(r.Context(), req.TenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get tenant", err)
		return
	}
	if tenant == nil {
		writeError(w, http.StatusNotFound, "Tenant not found", nil)
		return
	}
	if req.PropertyID == "" {
		req.PropertyID = tenant.PropertyID
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	p := sqlite.Payment{
		ID:          req.ID,
		TenantID:    req.TenantID,
		PropertyID:  req.PropertyID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Amount:      req.Amount,
		PaidOn:      paidOn,
		Method:      req.Method,
		Note:        req.Note,
	}
	if err := h.Store.SavePayment(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(p))
}

// DeletePayment removes a payment record.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
