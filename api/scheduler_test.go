package api

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharbeti/rentroll/schedule"
	"github.com/gharbeti/rentroll/store/sqlite"
)

func newScannerStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func scannerTenant(id, start string, durationYears int) sqlite.Tenant {
	return sqlite.Tenant{
		ID:               id,
		PropertyID:       "prop-1",
		Name:             "Sita Sharma",
		ContractStart:    start,
		DurationYears:    durationYears,
		BillingFrequency: "monthly",
		MonthlyRent:      decimal.NewFromInt(18000),
		Active:           true,
	}
}

func alertKinds(t *testing.T, store *sqlite.Store) map[string]int {
	t.Helper()

	alerts, err := store.ListAlerts(context.Background(), true)
	require.NoError(t, err)
	kinds := map[string]int{}
	for _, a := range alerts {
		kinds[a.Kind]++
	}
	return kinds
}

func TestScanner_ContractExpiryWithinWindow(t *testing.T) {
	store := newScannerStore(t)
	ctx := context.Background()

	// Ends 2024-12-31, within 90 days of Nov 1
	require.NoError(t, store.SaveTenant(ctx, scannerTenant("ten-1", "2023-01-01", 2)))
	// Ends years away, outside the window
	require.NoError(t, store.SaveTenant(ctx, scannerTenant("ten-2", "2024-01-01", 5)))

	today := schedule.NewDate(2024, time.November, 1)
	scanner := NewAlertScanner(store)
	scanner.scan(today)

	alerts, err := store.ListAlerts(ctx, true)
	require.NoError(t, err)

	var expiry []sqlite.Alert
	for _, a := range alerts {
		if a.Kind == "contract_expiry" {
			expiry = append(expiry, a)
		}
	}
	require.Len(t, expiry, 1)
	assert.Equal(t, "ten-1", expiry[0].TenantID)
	assert.Equal(t, "2024-12-31", expiry[0].DueDate.Format("2006-01-02"))

	// Re-running is a no-op
	scanner.scan(today)
	after := alertKinds(t, store)
	assert.Equal(t, 1, after["contract_expiry"])
}

func TestScanner_OverdueOnlyWithoutCoveringPayment(t *testing.T) {
	store := newScannerStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTenant(ctx, scannerTenant("ten-paid", "2024-01-01", 2)))
	require.NoError(t, store.SaveTenant(ctx, scannerTenant("ten-unpaid", "2024-01-01", 2)))

	require.NoError(t, store.SavePayment(ctx, sqlite.Payment{
		ID: "pay-1", TenantID: "ten-paid", PropertyID: "prop-1",
		PeriodStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(18000),
		PaidOn:      time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}))

	scanner := NewAlertScanner(store)
	scanner.scan(schedule.NewDate(2024, time.March, 15))

	alerts, err := store.ListAlerts(ctx, true)
	require.NoError(t, err)

	var overdue []sqlite.Alert
	for _, a := range alerts {
		if a.Kind == "payment_overdue" {
			overdue = append(overdue, a)
		}
	}
	require.Len(t, overdue, 1)
	assert.Equal(t, "ten-unpaid", overdue[0].TenantID)
	assert.Equal(t, "2024-03-01", overdue[0].DueDate.Format("2006-01-02"))
}

func TestScanner_SkipsInactiveAndNotStarted(t *testing.T) {
	store := newScannerStore(t)
	ctx := context.Background()

	inactive := scannerTenant("ten-gone", "2023-01-01", 1)
	inactive.Active = false
	require.NoError(t, store.SaveTenant(ctx, inactive))

	// Contract starts in the future
	require.NoError(t, store.SaveTenant(ctx, scannerTenant("ten-future", "2030-01-01", 2)))

	// No duration: expiry not computable, but rent is still due monthly
	require.NoError(t, store.SaveTenant(ctx, scannerTenant("ten-open", "2024-01-01", 0)))

	scanner := NewAlertScanner(store)
	scanner.scan(schedule.NewDate(2024, time.June, 15))

	kinds := alertKinds(t, store)
	assert.Equal(t, 0, kinds["contract_expiry"])
	assert.Equal(t, 1, kinds["payment_overdue"], "only the open-ended started tenancy is overdue")
}
