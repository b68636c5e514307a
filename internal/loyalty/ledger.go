// Package loyalty owns customer loyalty profiles and their append-only
// point ledger. Accrue and Redeem are the only operations that mutate a
// profile, and each recomputes the tier before persisting.
package loyalty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"jelpapharm/server/domain"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInsufficientPoints = errors.New("insufficient points")
)

type Ledger struct {
	db *sqlx.DB
}

func NewLedger(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

const customerColumns = `id, first_name, last_name, phone, email, points, tier,
	total_spent, purchase_count, last_purchase_at, created_at, updated_at`

// Get returns the customer or ErrCustomerNotFound.
func (l *Ledger) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	var c domain.Customer
	q := l.db.Rebind(`SELECT ` + customerColumns + ` FROM customers WHERE id = ?`)
	if err := l.db.GetContext(ctx, &c, q, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Accrue credits a purchase to the customer: one point per whole unit of
// currency spent (truncated), cumulative spend and purchase count updated,
// tier recomputed, and an "earned" ledger entry appended with a one year
// expiry. Applied as a single transaction.
func (l *Ledger) Accrue(ctx context.Context, customerID string, amountSpent decimal.Decimal, principal string) (*domain.LoyaltyTransaction, error) {
	earned := amountSpent.IntPart()
	if earned < 0 {
		earned = 0
	}
	ts := now()
	expiry := time.Now().UTC().AddDate(1, 0, 0).Format(time.RFC3339)

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var c domain.Customer
	q := tx.Rebind(`SELECT ` + customerColumns + ` FROM customers WHERE id = ?`)
	if err := tx.GetContext(ctx, &c, q, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	newSpend := c.TotalSpent.Add(amountSpent)
	q = tx.Rebind(`UPDATE customers
		SET points = points + ?,
		    total_spent = ?,
		    purchase_count = purchase_count + 1,
		    last_purchase_at = ?,
		    tier = ?,
		    updated_at = ?
		WHERE id = ?`)
	if _, err := tx.ExecContext(ctx, q, earned, newSpend, ts, domain.TierFor(newSpend), ts, customerID); err != nil {
		return nil, err
	}

	entry := domain.LoyaltyTransaction{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		Kind:        domain.LoyaltyEarned,
		Points:      earned,
		Description: fmt.Sprintf("Purchase of %s", amountSpent.StringFixed(2)),
		ExpiresAt:   &expiry,
		CreatedBy:   principal,
		CreatedAt:   ts,
	}
	if err := appendEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Redeem deducts points from the balance. The conditional update rejects a
// redemption that would drive the balance negative.
func (l *Ledger) Redeem(ctx context.Context, customerID string, points int64, description, principal string) (*domain.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, fmt.Errorf("redeem points must be positive")
	}
	ts := now()

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	q := tx.Rebind(`UPDATE customers SET points = points - ?, updated_at = ? WHERE id = ? AND points >= ?`)
	res, err := tx.ExecContext(ctx, q, points, ts, customerID, points)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		var exists int
		cq := tx.Rebind(`SELECT COUNT(*) FROM customers WHERE id = ?`)
		if err := tx.GetContext(ctx, &exists, cq, customerID); err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, ErrCustomerNotFound
		}
		return nil, ErrInsufficientPoints
	}

	entry := domain.LoyaltyTransaction{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		Kind:        domain.LoyaltyRedeemed,
		Points:      -points,
		Description: description,
		CreatedBy:   principal,
		CreatedAt:   ts,
	}
	if err := appendEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Match resolves a sale's free-text customer to a registered profile by a
// case-insensitive first/last name match. No match is not an error: the
// caller commits the sale without accrual. A phone number, when given,
// narrows ambiguous name matches.
func (l *Ledger) Match(ctx context.Context, name, phone string) (*domain.Customer, error) {
	first, last := splitName(name)
	if first == "" {
		return nil, nil
	}

	var matches []domain.Customer
	q := l.db.Rebind(`SELECT ` + customerColumns + ` FROM customers
		WHERE LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?)`)
	if err := l.db.SelectContext(ctx, &matches, q, first, last); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 && phone != "" {
		for i := range matches {
			if matches[i].Phone == phone {
				return &matches[i], nil
			}
		}
	}
	return &matches[0], nil
}

// History returns the customer's ledger entries, newest first.
func (l *Ledger) History(ctx context.Context, customerID string) ([]domain.LoyaltyTransaction, error) {
	var entries []domain.LoyaltyTransaction
	q := l.db.Rebind(`SELECT id, customer_id, kind, points, description, expires_at, created_by, created_at
		FROM loyalty_transactions WHERE customer_id = ? ORDER BY created_at DESC`)
	err := l.db.SelectContext(ctx, &entries, q, customerID)
	return entries, err
}

// Create registers a new customer with an empty loyalty profile.
func (l *Ledger) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Points = 0
	c.Tier = domain.TierBronze
	c.TotalSpent = decimal.Zero
	c.PurchaseCount = 0
	ts := now()
	c.CreatedAt, c.UpdatedAt = ts, ts
	q := l.db.Rebind(`INSERT INTO customers (id, first_name, last_name, phone, email, points,
		tier, total_spent, purchase_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, 0, 0, ?, ?)`)
	_, err := l.db.ExecContext(ctx, q, c.ID, c.FirstName, c.LastName, c.Phone, c.Email,
		c.Tier, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update rewrites a customer's contact details. Loyalty fields are owned by
// Accrue and Redeem and cannot be set here.
func (l *Ledger) Update(ctx context.Context, c domain.Customer) error {
	q := l.db.Rebind(`UPDATE customers SET first_name = ?, last_name = ?, phone = ?, email = ?, updated_at = ?
		WHERE id = ?`)
	res, err := l.db.ExecContext(ctx, q, c.FirstName, c.LastName, c.Phone, c.Email, now(), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// List returns customers, optionally filtered by a name search.
func (l *Ledger) List(ctx context.Context, query string, limit int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 25
	}
	var customers []domain.Customer
	if query == "" {
		q := l.db.Rebind(`SELECT ` + customerColumns + ` FROM customers ORDER BY last_name, first_name LIMIT ?`)
		err := l.db.SelectContext(ctx, &customers, q, limit)
		return customers, err
	}
	like := "%" + query + "%"
	q := l.db.Rebind(`SELECT ` + customerColumns + ` FROM customers
		WHERE LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)
		ORDER BY last_name, first_name LIMIT ?`)
	err := l.db.SelectContext(ctx, &customers, q, like, like, limit)
	return customers, err
}

func appendEntry(ctx context.Context, tx *sqlx.Tx, entry domain.LoyaltyTransaction) error {
	q := tx.Rebind(`INSERT INTO loyalty_transactions (id, customer_id, kind, points, description,
		expires_at, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := tx.ExecContext(ctx, q, entry.ID, entry.CustomerID, entry.Kind, entry.Points,
		entry.Description, entry.ExpiresAt, entry.CreatedBy, entry.CreatedAt)
	return err
}

func splitName(name string) (first, last string) {
	fields := strings.Fields(strings.TrimSpace(name))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
