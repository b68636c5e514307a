package domain

import "github.com/shopspring/decimal"

// ItemStatus is the lifecycle state of a catalog item. Items are never
// deleted, only moved between statuses.
type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemInactive ItemStatus = "inactive"
)

var validItemNext = map[ItemStatus]map[ItemStatus]bool{
	ItemActive:   {ItemInactive: true},
	ItemInactive: {ItemActive: true},
}

// CanTransition reports whether an item may move from one status to another.
func CanTransition(from, to ItemStatus) bool {
	return validItemNext[from][to]
}

// InventoryItem is a catalog item together with its stock position and
// cumulative sale counters.
type InventoryItem struct {
	ID                   string          `db:"id" json:"id"`
	Name                 string          `db:"name" json:"name"`
	Brand                string          `db:"brand" json:"brand"`
	Category             string          `db:"category" json:"category"`
	Quantity             int64           `db:"quantity" json:"quantity"`
	CostPrice            decimal.Decimal `db:"cost_price" json:"cost_price"`
	SalePrice            decimal.Decimal `db:"sale_price" json:"sale_price"`
	ReorderLevel         int64           `db:"reorder_level" json:"reorder_level"`
	ExpiryDate           *string         `db:"expiry_date" json:"expiry_date,omitempty"`
	PrescriptionRequired bool            `db:"prescription_required" json:"prescription_required"`
	Status               ItemStatus      `db:"status" json:"status"`
	TotalSold            int64           `db:"total_sold" json:"total_sold"`
	TotalRevenue         decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	CreatedAt            string          `db:"created_at" json:"created_at"`
	UpdatedAt            string          `db:"updated_at" json:"updated_at"`
}
