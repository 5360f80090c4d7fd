package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharbeti/rentroll/storage"
	"github.com/gharbeti/rentroll/store/sqlite"
)

// newTestServer wires a full router over an in-memory store and a
// throwaway uploads directory.
func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, storage.NewLocal(t.TempDir(), "/uploads"))
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestPropertyCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	// Create
	resp := doJSON(t, "POST", srv.URL+"/api/properties", map[string]any{
		"name": "Baneshwor House", "city": "Kathmandu", "kind": "house", "floors": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[PropertyDTO](t, resp)
	require.NotEmpty(t, created.ID)

	// Get
	resp = doJSON(t, "GET", srv.URL+"/api/properties/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[PropertyDTO](t, resp)
	assert.Equal(t, "Baneshwor House", got.Name)

	// Update
	resp = doJSON(t, "PUT", srv.URL+"/api/properties/"+created.ID, map[string]any{
		"name": "Baneshwor House", "city": "Kathmandu", "kind": "house", "floors": 4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[PropertyDTO](t, resp)
	assert.Equal(t, 4, updated.Floors)

	// List
	resp = doJSON(t, "GET", srv.URL+"/api/properties", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]PropertyDTO](t, resp)
	require.Len(t, list, 1)

	// Delete
	resp = doJSON(t, "DELETE", srv.URL+"/api/properties/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, "GET", srv.URL+"/api/properties/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProperty_RequiresName(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/properties", map[string]any{"city": "Kathmandu"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// TENANTS AND SCHEDULES
// =============================================================================

func createTenant(t *testing.T, srv *httptest.Server, body map[string]any) TenantDTO {
	t.Helper()

	resp := doJSON(t, "POST", srv.URL+"/api/tenants", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[TenantDTO](t, resp)
}

func TestTenantSchedule_FullContract(t *testing.T) {
	srv, _ := newTestServer(t)

	tenant := createTenant(t, srv, map[string]any{
		"property_id":              "prop-1",
		"name":                     "Sita Sharma",
		"contract_start":           "2023-01-01",
		"duration_years":           2,
		"billing_frequency":        "monthly",
		"monthly_rent":             10000,
		"increment_percent":        10,
		"increment_interval_years": 2,
	})

	resp := doJSON(t, "GET", srv.URL+"/api/tenants/"+tenant.ID+"/schedule?as_of=2023-06-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sched := decode[ScheduleDTO](t, resp)

	// Inclusive convention: 2 years from Jan 1 2023 ends Dec 31 2024
	assert.Equal(t, "2024-12-31", sched.EndDate)
	assert.NotEmpty(t, sched.EndDateBS)
	assert.Equal(t, 1, sched.FrequencyMonths)
	assert.Equal(t, "10000", sched.CurrentMonthlyRent)
	assert.Equal(t, "10000", sched.CurrentPeriodRent)

	require.Len(t, sched.YearlyBreakdown, 2)
	assert.Equal(t, YearRowDTO{Year: 2023, Months: 12, MonthlyRent: "10000", Total: "120000"}, sched.YearlyBreakdown[0])
	assert.Equal(t, YearRowDTO{Year: 2024, Months: 12, MonthlyRent: "10000", Total: "120000"}, sched.YearlyBreakdown[1])
}

func TestTenantSchedule_IncrementTakesEffect(t *testing.T) {
	srv, _ := newTestServer(t)

	tenant := createTenant(t, srv, map[string]any{
		"property_id":              "prop-1",
		"name":                     "Hari Gurung",
		"contract_start":           "2023-01-01",
		"duration_years":           5,
		"billing_frequency":        "tri-monthly",
		"monthly_rent":             10000,
		"increment_percent":        10,
		"increment_interval_years": 2,
	})

	// On the second anniversary the first increment applies
	resp := doJSON(t, "GET", srv.URL+"/api/tenants/"+tenant.ID+"/schedule?as_of=2025-01-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sched := decode[ScheduleDTO](t, resp)

	assert.Equal(t, "11000", sched.CurrentMonthlyRent)
	assert.Equal(t, "33000", sched.CurrentPeriodRent)
	assert.Equal(t, 3, sched.FrequencyMonths)
}

func TestTenantSchedule_NotCalculated(t *testing.T) {
	srv, _ := newTestServer(t)

	tenant := createTenant(t, srv, map[string]any{
		"property_id":    "prop-1",
		"name":           "No Duration",
		"contract_start": "2023-01-01",
		"monthly_rent":   5000,
	})

	resp := doJSON(t, "GET", srv.URL+"/api/tenants/"+tenant.ID+"/schedule", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sched := decode[ScheduleDTO](t, resp)

	assert.Equal(t, "Not calculated", sched.EndDate)
	assert.Empty(t, sched.EndDateBS)
	assert.Empty(t, sched.YearlyBreakdown)
}

func TestTenantSchedule_UnknownTenant(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "GET", srv.URL+"/api/tenants/nope/schedule", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateTenant_InvalidStartDate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/tenants", map[string]any{
		"property_id":    "prop-1",
		"name":           "Bad Date",
		"contract_start": "01/01/2023",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestTenantDTO_CarriesBSDate(t *testing.T) {
	srv, _ := newTestServer(t)

	tenant := createTenant(t, srv, map[string]any{
		"property_id":    "prop-1",
		"name":           "Sita Sharma",
		"contract_start": "2023-04-14",
		"duration_years": 1,
		"monthly_rent":   10000,
	})

	require.NotEmpty(t, tenant.ContractStartBS)
	// Rendered with Devanagari digits
	assert.NotContains(t, tenant.ContractStartBS, "2")
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestPaymentLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	tenant := createTenant(t, srv, map[string]any{
		"property_id":    "prop-1",
		"name":           "Sita Sharma",
		"contract_start": "2024-01-01",
		"duration_years": 2,
		"monthly_rent":   18000,
	})

	resp := doJSON(t, "POST", srv.URL+"/api/payments", map[string]any{
		"tenant_id":    tenant.ID,
		"period_start": "2024-01-01",
		"period_end":   "2024-01-31",
		"amount":       18000,
		"paid_on":      "2024-01-05",
		"method":       "cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	payment := decode[PaymentDTO](t, resp)
	assert.Equal(t, "18000", payment.Amount)
	assert.Equal(t, "prop-1", payment.PropertyID, "property id inherited from tenant")

	resp = doJSON(t, "GET", srv.URL+"/api/payments?tenant_id="+tenant.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]PaymentDTO](t, resp)
	require.Len(t, list, 1)

	resp = doJSON(t, "DELETE", srv.URL+"/api/payments/"+payment.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestCreatePayment_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	tenant := createTenant(t, srv, map[string]any{
		"property_id": "prop-1", "name": "Sita Sharma", "monthly_rent": 18000,
	})

	cases := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"zero amount", map[string]any{
			"tenant_id": tenant.ID, "period_start": "2024-01-01", "period_end": "2024-01-31",
			"amount": 0, "paid_on": "2024-01-05",
		}, http.StatusBadRequest},
		{"period inverted", map[string]any{
			"tenant_id": tenant.ID, "period_start": "2024-02-01", "period_end": "2024-01-31",
			"amount": 18000, "paid_on": "2024-01-05",
		}, http.StatusBadRequest},
		{"unknown tenant", map[string]any{
			"tenant_id": "nope", "period_start": "2024-01-01", "period_end": "2024-01-31",
			"amount": 18000, "paid_on": "2024-01-05",
		}, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, "POST", srv.URL+"/api/payments", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func TestDocumentUploadDownloadDelete(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("owner_kind", "tenant"))
	require.NoError(t, mw.WriteField("owner_id", "ten-1"))
	fw, err := mw.CreateFormFile("file", "lease.txt")
	require.NoError(t, err)
	fmt.Fprint(fw, "lease agreement body")
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", srv.URL+"/api/documents", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decode[DocumentDTO](t, resp)
	assert.Equal(t, "lease.txt", doc.FileName)
	assert.True(t, strings.HasPrefix(doc.URL, "/uploads/"))

	// Listing for the owner finds it
	resp = doJSON(t, "GET", srv.URL+"/api/documents?owner_kind=tenant&owner_id=ten-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	docs := decode[[]DocumentDTO](t, resp)
	require.Len(t, docs, 1)

	// Download streams the stored bytes back
	resp = doJSON(t, "GET", srv.URL+"/api/documents/"+doc.ID+"/file", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "lease agreement body", body.String())

	resp = doJSON(t, "DELETE", srv.URL+"/api/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestUploadDocument_RejectsBadOwnerKind(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("owner_kind", "vehicle"))
	require.NoError(t, mw.WriteField("owner_id", "x"))
	fw, _ := mw.CreateFormFile("file", "a.txt")
	fmt.Fprint(fw, "x")
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", srv.URL+"/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard_CountsAndExpectedRent(t *testing.T) {
	srv, h := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/scenarios/load", map[string]any{"scenario_id": "starter"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, "GET", srv.URL+"/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dash := decode[DashboardDTO](t, resp)

	assert.Equal(t, 1, dash.Properties)
	assert.Equal(t, 2, dash.ActiveTenants)
	// Starter contracts begin this month, so both rents count
	assert.Equal(t, "43000", dash.MonthExpectedRent)
	assert.Equal(t, "0", dash.MonthReceivedRent)
	assert.NotEmpty(t, dash.TodayBS)
	assert.Equal(t, "starter", h.currentScenario)
}
