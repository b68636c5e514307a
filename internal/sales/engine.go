// Package sales is the sale transaction engine: it turns a validated cart
// into a committed sale, debits the stock ledger, and credits the loyalty
// ledger, and on void reverses the stock effect while keeping the sale
// record for audit.
package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"jelpapharm/server/domain"
	"jelpapharm/server/internal/auth"
	"jelpapharm/server/internal/loyalty"
	"jelpapharm/server/internal/pricing"
	"jelpapharm/server/internal/stock"
)

// ReceiptSource mints candidate receipt numbers. Satisfied by
// sequence.Generator.
type ReceiptSource interface {
	NextReceiptNumber() string
}

// CartLine is one requested (item, quantity) pair.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// Cart is a sale request. Customer fields are free text; CustomerID, when
// present, pins loyalty accrual to that profile instead of the name match.
type Cart struct {
	CustomerID         string          `json:"customer_id,omitempty"`
	CustomerName       string          `json:"customer_name"`
	CustomerPhone      string          `json:"customer_phone,omitempty"`
	CustomerEmail      string          `json:"customer_email,omitempty"`
	Items              []CartLine      `json:"items"`
	PaymentMethod      string          `json:"payment_method"`
	Discount           decimal.Decimal `json:"discount"`
	PrescriptionNumber string          `json:"prescription_number,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

// Engine orchestrates sale commit and void against the stock and loyalty
// ledgers. It holds no locks; oversell is prevented by the stock ledger's
// conditional decrement.
type Engine struct {
	db      *sqlx.DB
	stock   *stock.Ledger
	loyalty *loyalty.Ledger
	seq     ReceiptSource
	authz   auth.Authorizer

	taxRate           decimal.Decimal
	allowOverDiscount bool
	receiptRetries    int
}

func NewEngine(db *sqlx.DB, st *stock.Ledger, lo *loyalty.Ledger, seq ReceiptSource, authz auth.Authorizer, taxRate decimal.Decimal, allowOverDiscount bool, receiptRetries int) *Engine {
	if receiptRetries < 1 {
		receiptRetries = 3
	}
	return &Engine{
		db:                db,
		stock:             st,
		loyalty:           lo,
		seq:               seq,
		authz:             authz,
		taxRate:           taxRate,
		allowOverDiscount: allowOverDiscount,
		receiptRetries:    receiptRetries,
	}
}

// CommitSale validates the cart, debits stock line by line, persists the
// sale with full line-item snapshots, and accrues loyalty points best-effort.
//
// Stock is debited before the sale record is written: each line goes through
// the ledger's atomic conditional decrement, and a failing line credits back
// the lines already debited so a rejected cart leaves no stock mutation and
// no sale record.
func (e *Engine) CommitSale(ctx context.Context, cart Cart, p auth.Principal) (*domain.Sale, error) {
	if !e.authz.Authorize(p, auth.ResourceSales, auth.ActionCreate) {
		return nil, ErrForbidden
	}
	if err := validateCart(cart); err != nil {
		return nil, err
	}

	rxPresent := cart.PrescriptionNumber != ""
	items := make([]domain.SaleItem, 0, len(cart.Items))
	priceLines := make([]pricing.Line, 0, len(cart.Items))
	for _, line := range cart.Items {
		item, err := e.stock.Reserve(ctx, line.ItemID, line.Quantity, rxPresent)
		if err != nil {
			return nil, err
		}
		si := domain.SaleItem{
			ItemID:               item.ID,
			Name:                 item.Name,
			Quantity:             line.Quantity,
			UnitPrice:            item.SalePrice,
			LineTotal:            item.SalePrice.Mul(decimal.NewFromInt(line.Quantity)),
			PrescriptionRequired: item.PrescriptionRequired,
		}
		if item.PrescriptionRequired {
			rx := cart.PrescriptionNumber
			si.PrescriptionNumber = &rx
		}
		items = append(items, si)
		priceLines = append(priceLines, pricing.Line{UnitPrice: item.SalePrice, Quantity: line.Quantity})
	}

	totals := pricing.Compute(priceLines, cart.Discount, e.taxRate)
	if !e.allowOverDiscount && totals.Total.IsNegative() {
		return nil, fmt.Errorf("discount %s exceeds amount due: %w", cart.Discount.StringFixed(2), ErrValidation)
	}

	// Debit every line through the atomic decrement. A line losing the race
	// since its Reserve gets the specific stock error; earlier lines are
	// credited back before returning.
	debited := make([]domain.SaleItem, 0, len(items))
	for _, si := range items {
		if err := e.stock.Debit(ctx, si.ItemID, si.Quantity, si.LineTotal); err != nil {
			e.compensate(ctx, debited)
			return nil, err
		}
		debited = append(debited, si)
	}

	sale := &domain.Sale{
		ID:            uuid.NewString(),
		CustomerName:  cart.CustomerName,
		CustomerPhone: cart.CustomerPhone,
		CustomerEmail: cart.CustomerEmail,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Discount:      cart.Discount,
		TotalAmount:   totals.Total,
		PaymentMethod: cart.PaymentMethod,
		PaymentStatus: domain.PaymentCompleted,
		CashierID:     p.UserID,
		Notes:         cart.Notes,
		CreatedAt:     now(),
		Items:         items,
	}
	if p.Role == domain.RolePharmacist {
		id := p.UserID
		sale.PharmacistID = &id
	}

	// Receipt numbers are probabilistically unique; the unique index is the
	// arbiter, and collisions are retried with a fresh number.
	var persistErr error
	for attempt := 0; attempt < e.receiptRetries; attempt++ {
		sale.ReceiptNumber = e.seq.NextReceiptNumber()
		persistErr = e.persist(ctx, sale)
		if persistErr == nil {
			break
		}
		if !isUniqueViolation(persistErr) {
			break
		}
	}
	if persistErr != nil {
		e.compensate(ctx, debited)
		if isUniqueViolation(persistErr) {
			return nil, fmt.Errorf("%w: receipt number collision persisted across %d attempts", ErrDuplicateIdentifier, e.receiptRetries)
		}
		return nil, persistErr
	}

	e.accrueLoyalty(ctx, cart, sale, p)
	return sale, nil
}

// VoidSale reverses a committed sale's stock effect and marks it void. The
// per-line credit loop is best-effort: a line whose item has disappeared is
// logged and skipped, never aborting the void. Loyalty accrual is not
// reversed.
func (e *Engine) VoidSale(ctx context.Context, saleID, reason string, p auth.Principal) (*domain.Sale, error) {
	if !e.authz.Authorize(p, auth.ResourceSales, auth.ActionVoid) {
		return nil, ErrForbidden
	}

	sale, err := e.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.IsVoid {
		return nil, ErrAlreadyVoid
	}

	ts := now()
	q := e.db.Rebind(`UPDATE sales SET is_void = ?, void_reason = ?, voided_by = ?, voided_at = ?
		WHERE id = ? AND is_void = ?`)
	res, err := e.db.ExecContext(ctx, q, true, reason, p.UserID, ts, saleID, false)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Another void won the race.
		return nil, ErrAlreadyVoid
	}

	for _, si := range sale.Items {
		if err := e.stock.Credit(ctx, si.ItemID, si.Quantity, si.LineTotal); err != nil {
			log.Printf("void %s: unable to restore stock for item %s: %v", sale.ReceiptNumber, si.ItemID, err)
		}
	}

	sale.IsVoid = true
	sale.VoidReason = &reason
	sale.VoidedBy = &p.UserID
	sale.VoidedAt = &ts
	return sale, nil
}

// GetSale loads a sale and its line items by id.
func (e *Engine) GetSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	return e.loadSale(ctx, `id`, saleID)
}

// GetSaleByReceipt loads a sale by its receipt number.
func (e *Engine) GetSaleByReceipt(ctx context.Context, receipt string) (*domain.Sale, error) {
	return e.loadSale(ctx, `receipt_number`, receipt)
}

const saleColumns = `id, receipt_number, customer_name, customer_phone, customer_email,
	subtotal, tax, discount, total_amount, payment_method, payment_status,
	cashier_id, pharmacist_id, notes, is_void, void_reason, voided_by, voided_at, created_at`

func (e *Engine) loadSale(ctx context.Context, column, value string) (*domain.Sale, error) {
	var sale domain.Sale
	q := e.db.Rebind(`SELECT ` + saleColumns + ` FROM sales WHERE ` + column + ` = ?`)
	if err := e.db.GetContext(ctx, &sale, q, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	q = e.db.Rebind(`SELECT sale_id, item_id, name, quantity, unit_price, line_total,
		prescription_required, prescription_number
		FROM sale_items WHERE sale_id = ?`)
	if err := e.db.SelectContext(ctx, &sale.Items, q, sale.ID); err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales returns sales newest first, optionally bounded by RFC3339 dates.
func (e *Engine) ListSales(ctx context.Context, from, to string, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + saleColumns + ` FROM sales`
	var (
		clauses []string
		args    []any
	)
	if from != "" {
		clauses = append(clauses, `created_at >= ?`)
		args = append(args, from)
	}
	if to != "" {
		clauses = append(clauses, `created_at <= ?`)
		args = append(args, to)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	var sales []domain.Sale
	if err := e.db.SelectContext(ctx, &sales, e.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return sales, nil
}

func (e *Engine) persist(ctx context.Context, sale *domain.Sale) error {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := tx.Rebind(`INSERT INTO sales (` + saleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(ctx, q, sale.ID, sale.ReceiptNumber, sale.CustomerName,
		sale.CustomerPhone, sale.CustomerEmail, sale.Subtotal, sale.Tax, sale.Discount,
		sale.TotalAmount, sale.PaymentMethod, sale.PaymentStatus, sale.CashierID,
		sale.PharmacistID, sale.Notes, sale.IsVoid, sale.VoidReason, sale.VoidedBy,
		sale.VoidedAt, sale.CreatedAt)
	if err != nil {
		return err
	}

	iq := tx.Rebind(`INSERT INTO sale_items (sale_id, item_id, name, quantity, unit_price,
		line_total, prescription_required, prescription_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, si := range sale.Items {
		if _, err := tx.ExecContext(ctx, iq, sale.ID, si.ItemID, si.Name, si.Quantity,
			si.UnitPrice, si.LineTotal, si.PrescriptionRequired, si.PrescriptionNumber); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// compensate credits back lines already debited by a commit that failed.
func (e *Engine) compensate(ctx context.Context, debited []domain.SaleItem) {
	for _, si := range debited {
		if err := e.stock.Credit(ctx, si.ItemID, si.Quantity, si.LineTotal); err != nil {
			log.Printf("commit rollback: unable to credit item %s: %v", si.ItemID, err)
		}
	}
}

// accrueLoyalty resolves the cart's customer and credits the sale's total.
// Accrual is best-effort: failures are logged, the sale stays committed.
func (e *Engine) accrueLoyalty(ctx context.Context, cart Cart, sale *domain.Sale, p auth.Principal) {
	var (
		customer *domain.Customer
		err      error
	)
	if cart.CustomerID != "" {
		customer, err = e.loyalty.Get(ctx, cart.CustomerID)
	} else {
		customer, err = e.loyalty.Match(ctx, cart.CustomerName, cart.CustomerPhone)
	}
	if err != nil {
		log.Printf("sale %s: loyalty lookup failed: %v", sale.ReceiptNumber, err)
		return
	}
	if customer == nil {
		return
	}
	if _, err := e.loyalty.Accrue(ctx, customer.ID, sale.TotalAmount, p.UserID); err != nil {
		log.Printf("sale %s: loyalty accrual failed for customer %s: %v", sale.ReceiptNumber, customer.ID, err)
	}
}

func validateCart(cart Cart) error {
	if len(cart.Items) == 0 {
		return fmt.Errorf("cart has no items: %w", ErrValidation)
	}
	for _, line := range cart.Items {
		if line.ItemID == "" {
			return fmt.Errorf("cart line missing item id: %w", ErrValidation)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("quantity for item %s must be positive: %w", line.ItemID, ErrValidation)
		}
	}
	if cart.Discount.IsNegative() {
		return fmt.Errorf("discount cannot be negative: %w", ErrValidation)
	}
	if cart.PaymentMethod == "" {
		return fmt.Errorf("payment_method is required: %w", ErrValidation)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
