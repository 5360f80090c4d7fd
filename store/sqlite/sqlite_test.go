package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharbeti/rentroll/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTenant(id, propertyID string) sqlite.Tenant {
	return sqlite.Tenant{
		ID:                     id,
		PropertyID:             propertyID,
		Name:                   "Ram Thapa",
		Phone:                  "9841000000",
		ContractStart:          "2023-04-01",
		DurationYears:          2,
		DurationMonths:         0,
		BillingFrequency:       "monthly",
		MonthlyRent:            decimal.NewFromInt(18000),
		IncrementPercent:       decimal.NewFromInt(10),
		IncrementIntervalYears: 2,
		AdvanceAmount:          decimal.NewFromInt(36000),
		Active:                 true,
	}
}

func TestProperty_SaveGetListDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := sqlite.Property{ID: "prop-1", Name: "Baneshwor House", Address: "Naya Baneshwor", City: "Kathmandu", Kind: "house", Floors: 3}
	require.NoError(t, store.SaveProperty(ctx, p))

	got, err := store.GetProperty(ctx, "prop-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Baneshwor House", got.Name)
	assert.Equal(t, 3, got.Floors)

	// Upsert updates in place
	p.Name = "Baneshwor House (renovated)"
	require.NoError(t, store.SaveProperty(ctx, p))
	list, err := store.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Baneshwor House (renovated)", list[0].Name)

	require.NoError(t, store.DeleteProperty(ctx, "prop-1"))
	got, err = store.GetProperty(ctx, "prop-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTenant_RoundTripPreservesContractTerms(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := testTenant("ten-1", "prop-1")
	require.NoError(t, store.SaveTenant(ctx, in))

	got, err := store.GetTenant(ctx, "ten-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "2023-04-01", got.ContractStart)
	assert.Equal(t, 2, got.DurationYears)
	assert.Equal(t, "monthly", got.BillingFrequency)
	assert.True(t, decimal.NewFromInt(18000).Equal(got.MonthlyRent))
	assert.True(t, decimal.NewFromInt(10).Equal(got.IncrementPercent))
	assert.Equal(t, 2, got.IncrementIntervalYears)
	assert.True(t, got.Active)
}

func TestTenant_ListFiltersByProperty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTenant(ctx, testTenant("ten-1", "prop-1")))
	require.NoError(t, store.SaveTenant(ctx, testTenant("ten-2", "prop-2")))

	all, err := store.ListTenants(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := store.ListTenants(ctx, "prop-2")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "ten-2", one[0].ID)
}

func TestPayment_SumAndCoverage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pay := func(id string, start, end, paid time.Time, amount int64) sqlite.Payment {
		return sqlite.Payment{
			ID: id, TenantID: "ten-1", PropertyID: "prop-1",
			PeriodStart: start, PeriodEnd: end,
			Amount: decimal.NewFromInt(amount), PaidOn: paid, Method: "cash",
		}
	}

	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	feb29 := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SavePayment(ctx, pay("pay-1", jan1, jan31, jan1.AddDate(0, 0, 4), 18000)))
	require.NoError(t, store.SavePayment(ctx, pay("pay-2", feb1, feb29, feb1.AddDate(0, 0, 2), 18000)))

	total, err := store.SumPaymentsPaidBetween(ctx, jan1, jan31)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(18000).Equal(total), "only January's payment falls in range, got %s", total)

	covered, err := store.HasPaymentCovering(ctx, "ten-1", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, covered)

	covered, err = store.HasPaymentCovering(ctx, "ten-1", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, covered)
}

func TestDocument_OwnerListing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := sqlite.Document{
		ID: "doc-1", OwnerKind: "tenant", OwnerID: "ten-1",
		FileName: "citizenship.pdf", ContentType: "application/pdf",
		SizeBytes: 1024, StorageKey: "tenants/ten-1/doc-1.pdf", URL: "/uploads/tenants/ten-1/doc-1.pdf",
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	docs, err := store.ListDocuments(ctx, "tenant", "ten-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "citizenship.pdf", docs[0].FileName)

	docs, err = store.ListDocuments(ctx, "property", "ten-1")
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))
	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAlert_IdempotentPerTenantKindDueDate(t *testing.T) {
	// GIVEN: The scanner writes the same alert twice (re-run)
	// THEN: Only the first insert lands

	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	a := sqlite.Alert{ID: "alert-1", TenantID: "ten-1", Kind: "contract_expiry", Message: "contract ends soon", DueDate: due}

	inserted, err := store.SaveAlert(ctx, a)
	require.NoError(t, err)
	assert.True(t, inserted)

	a.ID = "alert-2" // new ID, same tenant+kind+due date
	inserted, err = store.SaveAlert(ctx, a)
	require.NoError(t, err)
	assert.False(t, inserted)

	alerts, err := store.ListAlerts(ctx, true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	ok, err := store.AcknowledgeAlert(ctx, "alert-1")
	require.NoError(t, err)
	assert.True(t, ok)

	alerts, err = store.ListAlerts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProperty(ctx, sqlite.Property{ID: "prop-1", Name: "A", Kind: "house"}))
	require.NoError(t, store.SaveTenant(ctx, testTenant("ten-1", "prop-1")))
	inactive := testTenant("ten-2", "prop-1")
	inactive.Active = false
	require.NoError(t, store.SaveTenant(ctx, inactive))

	props, tenants, alerts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, props)
	assert.Equal(t, 1, tenants)
	assert.Equal(t, 0, alerts)
}
