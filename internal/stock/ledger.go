// Package stock owns the per-item stock position: on-hand quantity,
// total-sold and total-revenue counters. All mutation goes through atomic
// conditional updates; the "decrement if quantity >= N" guard is the sole
// boundary preventing oversell under concurrent sales.
package stock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"jelpapharm/server/domain"
)

var (
	ErrItemNotFound         = errors.New("item not found")
	ErrItemInactive         = errors.New("item is inactive")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrPrescriptionRequired = errors.New("prescription required")
	ErrBadTransition        = errors.New("invalid status transition")
)

// InsufficientStockError names the offending item and quantities.
type InsufficientStockError struct {
	ItemID    string
	Name      string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Ledger is the stock ledger over the backing store.
type Ledger struct {
	db *sqlx.DB
}

func NewLedger(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

const itemColumns = `id, name, brand, category, quantity, cost_price, sale_price,
	reorder_level, expiry_date, prescription_required, status, total_sold,
	total_revenue, created_at, updated_at`

// Get returns the item or ErrItemNotFound.
func (l *Ledger) Get(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	q := l.db.Rebind(`SELECT ` + itemColumns + ` FROM inventory WHERE id = ?`)
	if err := l.db.GetContext(ctx, &item, q, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Reserve validates a cart line against the ledger without mutating it.
// Checks run in a fixed order and the first failure wins: item exists,
// item active, prescription number present when the item requires one,
// then quantity on hand. The returned item is the snapshot source for
// sale line items.
func (l *Ledger) Reserve(ctx context.Context, itemID string, qty int64, rxPresent bool) (*domain.InventoryItem, error) {
	item, err := l.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemActive {
		return nil, fmt.Errorf("%s: %w", item.Name, ErrItemInactive)
	}
	if item.PrescriptionRequired && !rxPresent {
		return nil, fmt.Errorf("%s: %w", item.Name, ErrPrescriptionRequired)
	}
	if item.Quantity < qty {
		return nil, &InsufficientStockError{ItemID: item.ID, Name: item.Name, Available: item.Quantity, Requested: qty}
	}
	return item, nil
}

// Debit applies a sale's decrement for one line. The conditional update
// re-checks quantity so two concurrent debits against the same item
// serialize at the store and cannot oversell.
func (l *Ledger) Debit(ctx context.Context, itemID string, qty int64, revenue decimal.Decimal) error {
	q := l.db.Rebind(`UPDATE inventory
		SET quantity = quantity - ?,
		    total_sold = total_sold + ?,
		    total_revenue = total_revenue + ?,
		    updated_at = ?
		WHERE id = ? AND quantity >= ?`)
	res, err := l.db.ExecContext(ctx, q, qty, qty, revenue, now(), itemID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Lost the race or the item vanished; re-read to name the reason.
		item, err := l.Get(ctx, itemID)
		if err != nil {
			return err
		}
		return &InsufficientStockError{ItemID: item.ID, Name: item.Name, Available: item.Quantity, Requested: qty}
	}
	return nil
}

// Credit is the exact inverse of Debit, used when voiding a sale. It
// succeeds even if the item has been deactivated since the original sale:
// stock correctness takes priority over the status flag. Counters floor
// at zero rather than going negative.
func (l *Ledger) Credit(ctx context.Context, itemID string, qty int64, revenue decimal.Decimal) error {
	q := l.db.Rebind(`UPDATE inventory
		SET quantity = quantity + ?,
		    total_sold = CASE WHEN total_sold >= ? THEN total_sold - ? ELSE 0 END,
		    total_revenue = CASE WHEN total_revenue >= ? THEN total_revenue - ? ELSE 0 END,
		    updated_at = ?
		WHERE id = ?`)
	res, err := l.db.ExecContext(ctx, q, qty, qty, qty, revenue, revenue, now(), itemID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Restock adds quantity to an item.
func (l *Ledger) Restock(ctx context.Context, itemID string, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("restock quantity must be positive")
	}
	q := l.db.Rebind(`UPDATE inventory SET quantity = quantity + ?, updated_at = ? WHERE id = ?`)
	res, err := l.db.ExecContext(ctx, q, qty, now(), itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetStatus moves an item through its lifecycle. Items are never deleted.
func (l *Ledger) SetStatus(ctx context.Context, itemID string, to domain.ItemStatus) error {
	item, err := l.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if !domain.CanTransition(item.Status, to) {
		return fmt.Errorf("%s -> %s: %w", item.Status, to, ErrBadTransition)
	}
	q := l.db.Rebind(`UPDATE inventory SET status = ?, updated_at = ? WHERE id = ?`)
	_, err = l.db.ExecContext(ctx, q, to, now(), itemID)
	return err
}

// Create inserts a new catalog item and returns it.
func (l *Ledger) Create(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = domain.ItemActive
	}
	ts := now()
	item.CreatedAt, item.UpdatedAt = ts, ts
	q := l.db.Rebind(`INSERT INTO inventory (id, name, brand, category, quantity, cost_price,
		sale_price, reorder_level, expiry_date, prescription_required, status,
		total_sold, total_revenue, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`)
	_, err := l.db.ExecContext(ctx, q, item.ID, item.Name, item.Brand, item.Category,
		item.Quantity, item.CostPrice, item.SalePrice, item.ReorderLevel,
		item.ExpiryDate, item.PrescriptionRequired, item.Status, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update rewrites an item's catalog attributes (not its counters).
func (l *Ledger) Update(ctx context.Context, item domain.InventoryItem) error {
	q := l.db.Rebind(`UPDATE inventory SET name = ?, brand = ?, category = ?,
		cost_price = ?, sale_price = ?, reorder_level = ?, expiry_date = ?,
		prescription_required = ?, updated_at = ?
		WHERE id = ?`)
	res, err := l.db.ExecContext(ctx, q, item.Name, item.Brand, item.Category,
		item.CostPrice, item.SalePrice, item.ReorderLevel, item.ExpiryDate,
		item.PrescriptionRequired, now(), item.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Search lists active items matching the query by name or brand.
func (l *Ledger) Search(ctx context.Context, query string, limit int) ([]domain.InventoryItem, error) {
	if limit <= 0 {
		limit = 25
	}
	var items []domain.InventoryItem
	if query == "" {
		q := l.db.Rebind(`SELECT ` + itemColumns + ` FROM inventory WHERE status = ? ORDER BY name LIMIT ?`)
		err := l.db.SelectContext(ctx, &items, q, domain.ItemActive, limit)
		return items, err
	}
	like := "%" + query + "%"
	q := l.db.Rebind(`SELECT ` + itemColumns + ` FROM inventory
		WHERE status = ? AND (LOWER(name) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?))
		ORDER BY name LIMIT ?`)
	err := l.db.SelectContext(ctx, &items, q, domain.ItemActive, like, like, limit)
	return items, err
}

// LowStock lists active items at or below their reorder level.
func (l *Ledger) LowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	q := l.db.Rebind(`SELECT ` + itemColumns + ` FROM inventory
		WHERE status = ? AND quantity <= reorder_level ORDER BY quantity`)
	err := l.db.SelectContext(ctx, &items, q, domain.ItemActive)
	return items, err
}

// ExpiringBefore lists active stocked items expiring on or before the cutoff.
func (l *Ledger) ExpiringBefore(ctx context.Context, cutoff string) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	q := l.db.Rebind(`SELECT ` + itemColumns + ` FROM inventory
		WHERE status = ? AND quantity > 0 AND expiry_date IS NOT NULL AND expiry_date <= ?
		ORDER BY expiry_date`)
	err := l.db.SelectContext(ctx, &items, q, domain.ItemActive, cutoff)
	return items, err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
