package loyalty_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jelpapharm/server/domain"
	"jelpapharm/server/internal/database"
	"jelpapharm/server/internal/loyalty"
	"jelpapharm/server/internal/migrations"
)

func newTestLedger(t *testing.T) (*loyalty.Ledger, *sqlx.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Apply(db))
	return loyalty.NewLedger(db), db
}

func seedCustomer(t *testing.T, l *loyalty.Ledger, first, last, phone string) *domain.Customer {
	t.Helper()
	c, err := l.Create(context.Background(), domain.Customer{
		FirstName: first,
		LastName:  last,
		Phone:     phone,
		Email:     first + "@example.com",
	})
	require.NoError(t, err)
	return c
}

func TestAccrue_FloorsPointsAndCounts(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	c := seedCustomer(t, ledger, "Akosua", "Mensah", "0241000001")

	entry, err := ledger.Accrue(ctx, c.ID, decimal.RequireFromString("49.99"), "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, int64(49), entry.Points, "one point per whole currency unit")
	assert.Equal(t, domain.LoyaltyEarned, entry.Kind)
	require.NotNil(t, entry.ExpiresAt)

	expires, err := time.Parse(time.RFC3339, *entry.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().AddDate(1, 0, 0), expires, time.Minute)

	got, err := ledger.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(49), got.Points)
	assert.Equal(t, int64(1), got.PurchaseCount)
	assert.True(t, got.TotalSpent.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, domain.TierBronze, got.Tier)
	assert.NotNil(t, got.LastPurchaseAt)
}

func TestAccrue_RecomputesTierFromCumulativeSpend(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	c := seedCustomer(t, ledger, "Yaw", "Owusu", "")

	_, err := ledger.Accrue(ctx, c.ID, decimal.RequireFromString("1999.99"), "cashier-1")
	require.NoError(t, err)
	got, _ := ledger.Get(ctx, c.ID)
	assert.Equal(t, domain.TierBronze, got.Tier)

	_, err = ledger.Accrue(ctx, c.ID, decimal.RequireFromString("0.01"), "cashier-1")
	require.NoError(t, err)
	got, _ = ledger.Get(ctx, c.ID)
	assert.Equal(t, domain.TierSilver, got.Tier, "spend of exactly 2000 is silver")
}

func TestTierFor_Boundaries(t *testing.T) {
	cases := []struct {
		spend string
		want  domain.Tier
	}{
		{"0", domain.TierBronze},
		{"1999.99", domain.TierBronze},
		{"2000", domain.TierSilver},
		{"4999.99", domain.TierSilver},
		{"5000", domain.TierGold},
		{"9999.99", domain.TierGold},
		{"10000", domain.TierPlatinum},
		{"25000", domain.TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.TierFor(decimal.RequireFromString(tc.spend)), "spend %s", tc.spend)
	}
}

func TestAccrue_UnknownCustomer(t *testing.T) {
	ledger, _ := newTestLedger(t)
	_, err := ledger.Accrue(context.Background(), "nobody", decimal.NewFromInt(10), "cashier-1")
	assert.ErrorIs(t, err, loyalty.ErrCustomerNotFound)
}

func TestRedeem(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	c := seedCustomer(t, ledger, "Efua", "Asante", "")
	_, err := ledger.Accrue(ctx, c.ID, decimal.NewFromInt(100), "cashier-1")
	require.NoError(t, err)

	entry, err := ledger.Redeem(ctx, c.ID, 40, "gift voucher", "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LoyaltyRedeemed, entry.Kind)
	assert.Equal(t, int64(-40), entry.Points)

	got, err := ledger.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.Points)

	_, err = ledger.Redeem(ctx, c.ID, 61, "too much", "cashier-1")
	assert.ErrorIs(t, err, loyalty.ErrInsufficientPoints)

	got, err = ledger.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.Points, "rejected redeem must not mutate the balance")

	_, err = ledger.Redeem(ctx, "nobody", 1, "x", "cashier-1")
	assert.ErrorIs(t, err, loyalty.ErrCustomerNotFound)
}

func TestMatch(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	ama := seedCustomer(t, ledger, "Ama", "Boateng", "0240000001")

	t.Run("case-insensitive", func(t *testing.T) {
		got, err := ledger.Match(ctx, "ama BOATENG", "")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, ama.ID, got.ID)
	})

	t.Run("no match is not an error", func(t *testing.T) {
		got, err := ledger.Match(ctx, "Kofi Annan", "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty name", func(t *testing.T) {
		got, err := ledger.Match(ctx, "  ", "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("phone narrows duplicates", func(t *testing.T) {
		twin := seedCustomer(t, ledger, "Ama", "Boateng", "0240000002")
		got, err := ledger.Match(ctx, "Ama Boateng", "0240000002")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, twin.ID, got.ID)
	})
}

func TestHistory_AppendOnlyLedger(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	c := seedCustomer(t, ledger, "Kwame", "Addo", "")

	_, err := ledger.Accrue(ctx, c.ID, decimal.NewFromInt(30), "cashier-1")
	require.NoError(t, err)
	_, err = ledger.Redeem(ctx, c.ID, 10, "discount", "cashier-1")
	require.NoError(t, err)

	entries, err := ledger.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var delta int64
	for _, e := range entries {
		delta += e.Points
	}
	got, err := ledger.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Points, delta, "balance equals the sum of ledger deltas")
}
