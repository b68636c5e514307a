package domain

import "github.com/shopspring/decimal"

// Sale lifecycle: a sale is persisted already committed, and may be voided
// exactly once. There are no other states.
type SaleStatus string

const (
	SaleCommitted SaleStatus = "committed"
	SaleVoid      SaleStatus = "void"
)

const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMobile = "mobile"

	PaymentCompleted = "completed"
)

// Sale is a committed sale record. Line items snapshot the catalog name and
// price at the time of the sale, independent of later catalog changes.
type Sale struct {
	ID            string          `db:"id" json:"id"`
	ReceiptNumber string          `db:"receipt_number" json:"receipt_number"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	CustomerPhone string          `db:"customer_phone" json:"customer_phone,omitempty"`
	CustomerEmail string          `db:"customer_email" json:"customer_email,omitempty"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax           decimal.Decimal `db:"tax" json:"tax"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	PaymentStatus string          `db:"payment_status" json:"payment_status"`
	CashierID     string          `db:"cashier_id" json:"cashier_id"`
	PharmacistID  *string         `db:"pharmacist_id" json:"pharmacist_id,omitempty"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	IsVoid        bool            `db:"is_void" json:"is_void"`
	VoidReason    *string         `db:"void_reason" json:"void_reason,omitempty"`
	VoidedBy      *string         `db:"voided_by" json:"voided_by,omitempty"`
	VoidedAt      *string         `db:"voided_at" json:"voided_at,omitempty"`
	CreatedAt     string          `db:"created_at" json:"created_at"`

	Items []SaleItem `db:"-" json:"items"`
}

// SaleItem is one line of a sale with the catalog snapshot taken at commit.
type SaleItem struct {
	SaleID               string          `db:"sale_id" json:"-"`
	ItemID               string          `db:"item_id" json:"item_id"`
	Name                 string          `db:"name" json:"name"`
	Quantity             int64           `db:"quantity" json:"quantity"`
	UnitPrice            decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal            decimal.Decimal `db:"line_total" json:"line_total"`
	PrescriptionRequired bool            `db:"prescription_required" json:"prescription_required"`
	PrescriptionNumber   *string         `db:"prescription_number" json:"prescription_number,omitempty"`
}

func (s *Sale) Status() SaleStatus {
	if s.IsVoid {
		return SaleVoid
	}
	return SaleCommitted
}
