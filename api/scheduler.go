/*
scheduler.go - Background alert scanner

PURPOSE:
  Periodically walks active tenancies and raises alerts the landlord
  should act on:
  - contract_expiry:  The lease ends within the notice window
  - payment_overdue:  No recorded payment covers today

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Re-running is free: the alerts table is unique on
    (tenant_id, kind, due_date), duplicate inserts are ignored
  - An acknowledged alert stays acknowledged across re-scans

CONFIGURATION:
  - CheckInterval: How often to scan (default: 1 hour)
  - NoticeWindow:  How far ahead expiry alerts fire (default: 90 days)
  - Enabled:       Whether the scanner is active (default: true)

USAGE:
  scanner := NewAlertScanner(store)
  scanner.Start()
  // ... later
  scanner.Stop()

SEE ALSO:
  - dashboard.go: Where alerts surface
  - store/sqlite: SaveAlert idempotency
*/
package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gharbeti/rentroll/schedule"
	"github.com/gharbeti/rentroll/store/sqlite"
)

// AlertScanner raises contract-expiry and overdue-payment alerts.
type AlertScanner struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	NoticeWindow  int // days before contract end
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAlertScanner creates a scanner with default settings.
func NewAlertScanner(store *sqlite.Store) *AlertScanner {
	return &AlertScanner{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		NoticeWindow:  90,
		Enabled:       true,
		stop:          make(chan struct{}),
	}
}

// Start begins the background scan loop.
func (s *AlertScanner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		slog.Info("alert scanner disabled, not starting")
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.wg.Add(1)
	go s.run()

	slog.Info("alert scanner started", "interval", s.CheckInterval, "notice_days", s.NoticeWindow)
}

// Stop halts the scan loop and waits for an in-flight scan.
func (s *AlertScanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		slog.Info("alert scanner stopped")
	}
}

// RunNow triggers an immediate scan (for testing and admin endpoints).
func (s *AlertScanner) RunNow() {
	s.scan(schedule.Today())
}

func (s *AlertScanner) run() {
	defer s.wg.Done()

	// Scan immediately on start
	s.scan(schedule.Today())

	for {
		select {
		case <-s.ticker.C:
			s.scan(schedule.Today())
		case <-s.stop:
			return
		}
	}
}

func (s *AlertScanner) scan(today schedule.Date) {
	ctx := context.Background()

	tenants, err := s.Store.ListTenants(ctx, "")
	if err != nil {
		slog.Error("alert scan: list tenants", "error", err)
		return
	}

	raised := 0
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

		n, err := s.checkExpiry(ctx, t, terms, today)
		if err != nil {
			slog.Error("alert scan: expiry check", "tenant", t.ID, "error", err)
		}
		raised += n

		n, err = s.checkOverdue(ctx, t, terms, today)
		if err != nil {
			slog.Error("alert scan: overdue check", "tenant", t.ID, "error", err)
		}
		raised += n
	}

	if raised > 0 {
		slog.Info("alert scan completed", "raised", raised, "tenants", len(tenants))
	}
}

// checkExpiry raises an alert when the contract ends within the notice
// window. Already-ended contracts alert too until deactivated.
func (s *AlertScanner) checkExpiry(ctx context.Context, t sqlite.Tenant, terms schedule.TenancyTerms, today schedule.Date) (int, error) {
	end, ok := terms.EndDate()
	if !ok {
		return 0, nil
	}
	if end.After(today.AddDays(s.NoticeWindow)) {
		return 0, nil
	}

	inserted, err := s.Store.SaveAlert(ctx, sqlite.Alert{
		ID:       uuid.NewString(),
		TenantID: t.ID,
		Kind:     "contract_expiry",
		Message:  fmt.Sprintf("%s: contract ends %s", t.Name, end),
		DueDate:  end.Time,
	})
	if err != nil || !inserted {
		return 0, err
	}
	return 1, nil
}

// checkOverdue raises an alert when no payment covers today. The due
// date is pinned to the first of the month so re-scans within a month
// collapse into one alert.
func (s *AlertScanner) checkOverdue(ctx context.Context, t sqlite.Tenant, terms schedule.TenancyTerms, today schedule.Date) (int, error) {
	if terms.ContractStart.IsZero() || terms.ContractStart.After(today) {
		return 0, nil
	}
	if end, ok := terms.EndDate(); ok && end.Before(today) {
		return 0, nil
	}

	covered, err := s.Store.HasPaymentCovering(ctx, t.ID, today.Time)
	if err != nil {
		return 0, err
	}
	if covered {
		return 0, nil
	}

	monthStart := schedule.NewDate(today.Year(), today.Month(), 1)
	inserted, err := s.Store.SaveAlert(ctx, sqlite.Alert{
		ID:       uuid.NewString(),
		TenantID: t.ID,
		Kind:     "payment_overdue",
		Message:  fmt.Sprintf("%s: no payment covering %s", t.Name, today),
		DueDate:  monthStart.Time,
	})
	if err != nil || !inserted {
		return 0, err
	}
	return 1, nil
}
