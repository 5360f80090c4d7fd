/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Seeds the database with recognizable demo data so the app can be
  shown (and the frontend developed) without hand-entering a portfolio.
  Each scenario is a named loader that wipes the database and writes a
  known state.

SCENARIOS:
  starter:    One house, two tenants, no history
  portfolio:  Two properties, tenants with increments, payment history

ENDPOINTS:
  GET  /api/scenarios           List available scenarios
  GET  /api/scenarios/current   Which scenario is loaded
  POST /api/scenarios/load      Load one (wipes existing data)
  POST /api/scenarios/reset     Wipe without reloading

SEE ALSO:
  - handlers.go: Handler struct, currentScenario field
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gharbeti/rentroll/store/sqlite"
)

type scenarioLoader func(ctx context.Context, store *sqlite.Store) error

var scenarios = []ScenarioDTO{
	{
		ID:          "starter",
		Name:        "Starter",
		Description: "One house with two tenants, fresh contracts, no payments yet",
	},
	{
		ID:          "portfolio",
		Name:        "Portfolio",
		Description: "Two properties, rent increments in effect, a year of payment history",
	},
}

var scenarioLoaders = map[string]scenarioLoader{
	"starter":   loadStarter,
	"portfolio": loadPortfolio,
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario reports which scenario was last loaded.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario wipes the database and loads the named scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	loader, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := loader(ctx, h.Store); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": req.ScenarioID, "status": "loaded"})
}

// ResetDatabase wipes all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// LOADERS
// =============================================================================

func loadStarter(ctx context.Context, store *sqlite.Store) error {
	if err := store.SaveProperty(ctx, sqlite.Property{
		ID: "house-baneshwor", Name: "Baneshwor House",
		Address: "Naya Baneshwor", City: "Kathmandu", Kind: "house", Floors: 3,
	}); err != nil {
		return err
	}

	start := firstOfMonth(time.Now()).Format(dateFormat)
	tenants := []sqlite.Tenant{
		{
			ID: "ten-ground", PropertyID: "house-baneshwor", Name: "Sita Sharma",
			Phone: "9841000001", UnitLabel: "Ground floor",
			ContractStart: start, DurationYears: 2,
			BillingFrequency: "monthly",
			MonthlyRent:      decimal.NewFromInt(18000),
			AdvanceAmount:    decimal.NewFromInt(36000),
			Active:           true,
		},
		{
			ID: "ten-first", PropertyID: "house-baneshwor", Name: "Hari Gurung",
			Phone: "9841000002", UnitLabel: "First floor",
			ContractStart: start, DurationYears: 3,
			BillingFrequency:       "tri-monthly",
			MonthlyRent:            decimal.NewFromInt(25000),
			IncrementPercent:       decimal.NewFromInt(10),
			IncrementIntervalYears: 2,
			AdvanceAmount:          decimal.NewFromInt(50000),
			Active:                 true,
		},
	}
	for _, t := range tenants {
		if err := store.SaveTenant(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func loadPortfolio(ctx context.Context, store *sqlite.Store) error {
	properties := []sqlite.Property{
		{ID: "house-baneshwor", Name: "Baneshwor House", Address: "Naya Baneshwor", City: "Kathmandu", Kind: "house", Floors: 3},
		{ID: "flat-patan", Name: "Patan Flat", Address: "Pulchowk", City: "Lalitpur", Kind: "flat", Floors: 1},
	}
	for _, p := range properties {
		if err := store.SaveProperty(ctx, p); err != nil {
			return err
		}
	}

	// Contract old enough that the first increment has taken effect
	start := firstOfMonth(time.Now()).AddDate(-2, 0, 0)
	tenants := []sqlite.Tenant{
		{
			ID: "ten-shop", PropertyID: "house-baneshwor", Name: "Maya Tamang",
			Phone: "9841000003", UnitLabel: "Street-front shop",
			ContractStart: start.Format(dateFormat), DurationYears: 5,
			BillingFrequency:       "monthly",
			MonthlyRent:            decimal.NewFromInt(30000),
			IncrementPercent:       decimal.NewFromInt(10),
			IncrementIntervalYears: 2,
			AdvanceAmount:          decimal.NewFromInt(90000),
			Active:                 true,
		},
		{
			ID: "ten-flat", PropertyID: "flat-patan", Name: "Bikash Shrestha",
			Phone: "9841000004",
			ContractStart: start.Format(dateFormat), DurationYears: 2, DurationMonths: 6,
			BillingFrequency: "semi-annually",
			MonthlyRent:      decimal.NewFromInt(22000),
			AdvanceAmount:    decimal.NewFromInt(44000),
			Active:           true,
		},
	}
	for _, t := range tenants {
		if err := store.SaveTenant(ctx, t); err != nil {
			return err
		}
	}

	// Twelve settled monthly periods for the shop
	rent := decimal.NewFromInt(30000)
	for i := 0; i < 12; i++ {
		periodStart := start.AddDate(0, i, 0)
		periodEnd := periodStart.AddDate(0, 1, -1)
		payment := sqlite.Payment{
			ID:          "pay-shop-" + periodStart.Format("2006-01"),
			TenantID:    "ten-shop",
			PropertyID:  "house-baneshwor",
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Amount:      rent,
			PaidOn:      periodStart.AddDate(0, 0, 3),
			Method:      "cash",
		}
		if err := store.SavePayment(ctx, payment); err != nil {
			return err
		}
	}
	return nil
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
