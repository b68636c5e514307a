package domain

import "github.com/shopspring/decimal"

// Tier is a customer's loyalty rank, a deterministic function of cumulative spend.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

var (
	silverThreshold   = decimal.NewFromInt(2000)
	goldThreshold     = decimal.NewFromInt(5000)
	platinumThreshold = decimal.NewFromInt(10000)
)

// TierFor maps cumulative spend to a tier.
func TierFor(spend decimal.Decimal) Tier {
	switch {
	case spend.GreaterThanOrEqual(platinumThreshold):
		return TierPlatinum
	case spend.GreaterThanOrEqual(goldThreshold):
		return TierGold
	case spend.GreaterThanOrEqual(silverThreshold):
		return TierSilver
	default:
		return TierBronze
	}
}

// Customer is a registered customer with their loyalty profile.
type Customer struct {
	ID             string          `db:"id" json:"id"`
	FirstName      string          `db:"first_name" json:"first_name"`
	LastName       string          `db:"last_name" json:"last_name"`
	Phone          string          `db:"phone" json:"phone,omitempty"`
	Email          string          `db:"email" json:"email,omitempty"`
	Points         int64           `db:"points" json:"points"`
	Tier           Tier            `db:"tier" json:"tier"`
	TotalSpent     decimal.Decimal `db:"total_spent" json:"total_spent"`
	PurchaseCount  int64           `db:"purchase_count" json:"purchase_count"`
	LastPurchaseAt *string         `db:"last_purchase_at" json:"last_purchase_at,omitempty"`
	CreatedAt      string          `db:"created_at" json:"created_at"`
	UpdatedAt      string          `db:"updated_at" json:"updated_at"`
}

// Loyalty transaction kinds.
const (
	LoyaltyEarned   = "earned"
	LoyaltyRedeemed = "redeemed"
	LoyaltyExpired  = "expired"
	LoyaltyBonus    = "bonus"
)

// LoyaltyTransaction is an immutable ledger entry. Rows are only ever
// appended, never updated or deleted.
type LoyaltyTransaction struct {
	ID          string  `db:"id" json:"id"`
	CustomerID  string  `db:"customer_id" json:"customer_id"`
	Kind        string  `db:"kind" json:"kind"`
	Points      int64   `db:"points" json:"points"`
	Description string  `db:"description" json:"description"`
	ExpiresAt   *string `db:"expires_at" json:"expires_at,omitempty"`
	CreatedBy   string  `db:"created_by" json:"created_by"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}
