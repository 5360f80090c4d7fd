/*
Package sqlite provides the SQLite-backed store for the rent-roll service.

PURPOSE:
  Persists everything the application owns: properties, tenants (with
  their contract terms), rent payments, uploaded document metadata, and
  scanner-generated alerts. The same patterns carry to PostgreSQL with
  only dialect differences.

KEY TABLES:
  properties:  Buildings/units the landlord manages
  tenants:     One row per tenancy, holding the contract term fields the
               schedule engine consumes (start, duration, frequency,
               rent, increment rule)
  payments:    Rent received, one row per billing period settled
  documents:   Metadata for uploaded files (blobs live in storage/)
  alerts:      Contract-expiry and overdue notices from the scanner

AMOUNTS:
  Money is stored as TEXT and parsed with shopspring/decimal. REAL would
  silently lose paisa on large sums.

CONCURRENCY:
  A sync.RWMutex serializes writers. SQLite runs in WAL mode so readers
  do not block.

MIGRATION:
  Schema is auto-migrated on New(). A production deployment would use a
  versioned migration tool instead.

SEE ALSO:
  - schedule/terms.go: The boundary mapping tenants feed into
  - api/handlers.go: The only consumer of this package
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// Store implements persistence for the rent-roll service.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		city TEXT,
		kind TEXT NOT NULL DEFAULT 'house',
		floors INTEGER DEFAULT 1,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tenants (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		unit_label TEXT,
		contract_start TEXT,
		duration_years INTEGER NOT NULL DEFAULT 0,
		duration_months INTEGER NOT NULL DEFAULT 0,
		billing_frequency TEXT NOT NULL DEFAULT 'monthly',
		monthly_rent TEXT NOT NULL DEFAULT '0',
		increment_percent TEXT NOT NULL DEFAULT '0',
		increment_interval_years INTEGER NOT NULL DEFAULT 0,
		advance_amount TEXT NOT NULL DEFAULT '0',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tenants_property
		ON tenants(property_id);
	CREATE INDEX IF NOT EXISTS idx_tenants_active
		ON tenants(active);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		property_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		amount TEXT NOT NULL,
		paid_on TEXT NOT NULL,
		method TEXT,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_tenant
		ON payments(tenant_id, period_start);
	CREATE INDEX IF NOT EXISTS idx_payments_paid_on
		ON payments(paid_on);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		owner_kind TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		content_type TEXT,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		storage_key TEXT NOT NULL,
		url TEXT NOT NULL,
		uploaded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_owner
		ON documents(owner_kind, owner_id);

	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		due_date TEXT NOT NULL,
		acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- One alert per tenant+kind+due date: the scanner can re-run freely
	CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_unique
		ON alerts(tenant_id, kind, due_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD TYPES
// =============================================================================

type Property struct {
	ID        string
	Name      string
	Address   string
	City      string
	Kind      string
	Floors    int
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Tenant struct {
	ID         string
	PropertyID string
	Name       string
	Phone      string
	Email      string
	UnitLabel  string

	// Contract terms, as entered. The schedule engine receives these via
	// schedule.FromRecord - never directly.
	ContractStart          string // ISO date, may be empty
	DurationYears          int
	DurationMonths         int
	BillingFrequency       string
	MonthlyRent            decimal.Decimal
	IncrementPercent       decimal.Decimal
	IncrementIntervalYears int
	AdvanceAmount          decimal.Decimal

	Active    bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Payment struct {
	ID          string
	TenantID    string
	PropertyID  string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Amount      decimal.Decimal
	PaidOn      time.Time
	Method      string
	Note        string
	CreatedAt   time.Time
}

type Document struct {
	ID          string
	OwnerKind   string // "property" or "tenant"
	OwnerID     string
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	URL         string
	UploadedAt  time.Time
}

type Alert struct {
	ID           string
	TenantID     string
	Kind         string // "contract_expiry" or "payment_overdue"
	Message      string
	DueDate      time.Time
	Acknowledged bool
	CreatedAt    time.Time
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (s *Store) SaveProperty(ctx context.Context, p Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (id, name, address, city, kind, floors, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, address=excluded.address, city=excluded.city,
			kind=excluded.kind, floors=excluded.floors, notes=excluded.notes,
			updated_at=excluded.updated_at`,
		p.ID, p.Name, p.Address, p.City, p.Kind, p.Floors, p.Notes,
		p.CreatedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save property: %w", err)
	}
	return nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (*Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, city, kind, floors, notes, created_at, updated_at
		FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

func (s *Store) ListProperties(ctx context.Context) ([]Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, city, kind, floors, notes, created_at, updated_at
		FROM properties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var out []Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("list properties: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(r rowScanner) (*Property, error) {
	var p Property
	var address, city, notes sql.NullString
	var createdAt, updatedAt string
	if err := r.Scan(&p.ID, &p.Name, &address, &city, &p.Kind, &p.Floors, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Address = address.String
	p.City = city.String
	p.Notes = notes.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// =============================================================================
// TENANTS
// =============================================================================

func (s *Store) SaveTenant(ctx context.Context, t Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, property_id, name, phone, email, unit_label,
			contract_start, duration_years, duration_months, billing_frequency,
			monthly_rent, increment_percent, increment_interval_years,
			advance_amount, active, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_id=excluded.property_id, name=excluded.name,
			phone=excluded.phone, email=excluded.email, unit_label=excluded.unit_label,
			contract_start=excluded.contract_start,
			duration_years=excluded.duration_years, duration_months=excluded.duration_months,
			billing_frequency=excluded.billing_frequency,
			monthly_rent=excluded.monthly_rent,
			increment_percent=excluded.increment_percent,
			increment_interval_years=excluded.increment_interval_years,
			advance_amount=excluded.advance_amount,
			active=excluded.active, notes=excluded.notes,
			updated_at=excluded.updated_at`,
		t.ID, t.PropertyID, t.Name, t.Phone, t.Email, t.UnitLabel,
		t.ContractStart, t.DurationYears, t.DurationMonths, t.BillingFrequency,
		t.MonthlyRent.String(), t.IncrementPercent.String(), t.IncrementIntervalYears,
		t.AdvanceAmount.String(), t.Active, t.Notes,
		t.CreatedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save tenant: %w", err)
	}
	return nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, tenantSelect+` WHERE id = ?`, id)
	t, err := scanTenant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// ListTenants returns tenants, optionally filtered to one property.
// Pass "" for all properties.
func (s *Store) ListTenants(ctx context.Context, propertyID string) ([]Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := tenantSelect + ` ORDER BY name`
	args := []any{}
	if propertyID != "" {
		query = tenantSelect + ` WHERE property_id = ? ORDER BY name`
		args = append(args, propertyID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("list tenants: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

const tenantSelect = `
	SELECT id, property_id, name, phone, email, unit_label,
		contract_start, duration_years, duration_months, billing_frequency,
		monthly_rent, increment_percent, increment_interval_years,
		advance_amount, active, notes, created_at, updated_at
	FROM tenants`

func scanTenant(r rowScanner) (*Tenant, error) {
	var t Tenant
	var phone, email, unitLabel, contractStart, notes sql.NullString
	var rent, pct, advance string
	var createdAt, updatedAt string
	err := r.Scan(&t.ID, &t.PropertyID, &t.Name, &phone, &email, &unitLabel,
		&contractStart, &t.DurationYears, &t.DurationMonths, &t.BillingFrequency,
		&rent, &pct, &t.IncrementIntervalYears,
		&advance, &t.Active, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Phone = phone.String
	t.Email = email.String
	t.UnitLabel = unitLabel.String
	t.ContractStart = contractStart.String
	t.Notes = notes.String
	t.MonthlyRent = parseAmount(rent)
	t.IncrementPercent = parseAmount(pct)
	t.AdvanceAmount = parseAmount(advance)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &t, nil
}

// parseAmount reads a stored decimal, treating corrupt values as zero.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) SavePayment(ctx context.Context, p Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, tenant_id, property_id, period_start, period_end,
			amount, paid_on, method, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			period_start=excluded.period_start, period_end=excluded.period_end,
			amount=excluded.amount, paid_on=excluded.paid_on,
			method=excluded.method, note=excluded.note`,
		p.ID, p.TenantID, p.PropertyID,
		p.PeriodStart.Format(dateFormat), p.PeriodEnd.Format(dateFormat),
		p.Amount.String(), p.PaidOn.Format(dateFormat), p.Method, p.Note,
		p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, id string) (*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, paymentSelect+` WHERE id = ?`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListPayments returns payments newest period first, optionally filtered
// to one tenant. Pass "" for all tenants.
func (s *Store) ListPayments(ctx context.Context, tenantID string) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := paymentSelect + ` ORDER BY period_start DESC`
	args := []any{}
	if tenantID != "" {
		query = paymentSelect + ` WHERE tenant_id = ? ORDER BY period_start DESC`
		args = append(args, tenantID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("list payments: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

// SumPaymentsPaidBetween totals payments with paid_on in [from, to].
func (s *Store) SumPaymentsPaidBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM payments WHERE paid_on >= ? AND paid_on <= ?`,
		from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("sum payments: %w", err)
		}
		total = total.Add(parseAmount(amount))
	}
	return total, rows.Err()
}

// HasPaymentCovering reports whether a payment for the tenant covers the
// given date (period_start <= day <= period_end).
func (s *Store) HasPaymentCovering(ctx context.Context, tenantID string, day time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM payments
		WHERE tenant_id = ? AND period_start <= ? AND period_end >= ?`,
		tenantID, day.Format(dateFormat), day.Format(dateFormat)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("payment lookup: %w", err)
	}
	return n > 0, nil
}

const paymentSelect = `
	SELECT id, tenant_id, property_id, period_start, period_end,
		amount, paid_on, method, note, created_at
	FROM payments`

func scanPayment(r rowScanner) (*Payment, error) {
	var p Payment
	var periodStart, periodEnd, amount, paidOn, createdAt string
	var method, note sql.NullString
	err := r.Scan(&p.ID, &p.TenantID, &p.PropertyID, &periodStart, &periodEnd,
		&amount, &paidOn, &method, &note, &createdAt)
	if err != nil {
		return nil, err
	}
	p.PeriodStart, _ = time.Parse(dateFormat, periodStart)
	p.PeriodEnd, _ = time.Parse(dateFormat, periodEnd)
	p.Amount = parseAmount(amount)
	p.PaidOn, _ = time.Parse(dateFormat, paidOn)
	p.Method = method.String
	p.Note = note.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func (s *Store) SaveDocument(ctx context.Context, d Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, owner_kind, owner_id, file_name, content_type,
			size_bytes, storage_key, url, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerKind, d.OwnerID, d.FileName, d.ContentType,
		d.SizeBytes, d.StorageKey, d.URL, d.UploadedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, documentSelect+` WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (s *Store) ListDocuments(ctx context.Context, ownerKind, ownerID string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		documentSelect+` WHERE owner_kind = ? AND owner_id = ? ORDER BY uploaded_at DESC`,
		ownerKind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

const documentSelect = `
	SELECT id, owner_kind, owner_id, file_name, content_type,
		size_bytes, storage_key, url, uploaded_at
	FROM documents`

func scanDocument(r rowScanner) (*Document, error) {
	var d Document
	var contentType sql.NullString
	var uploadedAt string
	err := r.Scan(&d.ID, &d.OwnerKind, &d.OwnerID, &d.FileName, &contentType,
		&d.SizeBytes, &d.StorageKey, &d.URL, &uploadedAt)
	if err != nil {
		return nil, err
	}
	d.ContentType = contentType.String
	d.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
	return &d, nil
}

// =============================================================================
// ALERTS
// =============================================================================

// SaveAlert inserts an alert if one does not already exist for the same
// tenant, kind, and due date. Returns true if a new row was written.
func (s *Store) SaveAlert(ctx context.Context, a Alert) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO alerts (id, tenant_id, kind, message, due_date, acknowledged, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TenantID, a.Kind, a.Message, a.DueDate.Format(dateFormat),
		a.Acknowledged, a.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("save alert: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListAlerts returns alerts, newest due date first. With openOnly, only
// unacknowledged alerts are returned.
func (s *Store) ListAlerts(ctx context.Context, openOnly bool) ([]Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, tenant_id, kind, message, due_date, acknowledged, created_at
		FROM alerts ORDER BY due_date DESC`
	if openOnly {
		query = `SELECT id, tenant_id, kind, message, due_date, acknowledged, created_at
			FROM alerts WHERE acknowledged = FALSE ORDER BY due_date DESC`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []Alert
	for rows.Next() {
		var a Alert
		var dueDate, createdAt string
		if err := rows.Scan(&a.ID, &a.TenantID, &a.Kind, &a.Message, &dueDate, &a.Acknowledged, &createdAt); err != nil {
			return nil, fmt.Errorf("list alerts: %w", err)
		}
		a.DueDate, _ = time.Parse(dateFormat, dueDate)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// AcknowledgeAlert marks an alert as seen. Returns false if no such alert.
func (s *Store) AcknowledgeAlert(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET acknowledged = TRUE WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("acknowledge alert: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// =============================================================================
// DASHBOARD AGGREGATES / MAINTENANCE
// =============================================================================

// Counts returns property, active-tenant, and open-alert counts in one call.
func (s *Store) Counts(ctx context.Context) (properties, activeTenants, openAlerts int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(1) FROM properties),
			(SELECT COUNT(1) FROM tenants WHERE active = TRUE),
			(SELECT COUNT(1) FROM alerts WHERE acknowledged = FALSE)`)
	if scanErr := row.Scan(&properties, &activeTenants, &openAlerts); scanErr != nil {
		return 0, 0, 0, fmt.Errorf("counts: %w", scanErr)
	}
	return properties, activeTenants, openAlerts, nil
}

// Reset wipes all data. Used by demo scenarios only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"properties", "tenants", "payments", "documents", "alerts"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
