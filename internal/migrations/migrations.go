package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema. The DDL sticks to TEXT/INTEGER/NUMERIC
// column types so the same statements work on both SQLite and Postgres;
// identifiers are uuids minted in Go and timestamps are RFC3339 text set in Go.
func Run(db *sqlx.DB) {
	if err := Apply(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

// Apply is Run without the fatal exit, used by tests.
func Apply(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 0,
			cost_price NUMERIC NOT NULL DEFAULT 0,
			sale_price NUMERIC NOT NULL DEFAULT 0,
			reorder_level INTEGER NOT NULL DEFAULT 0,
			expiry_date TEXT,
			prescription_required BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'active',
			total_sold INTEGER NOT NULL DEFAULT 0,
			total_revenue NUMERIC NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sales (
			id TEXT PRIMARY KEY,
			receipt_number TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			customer_phone TEXT NOT NULL DEFAULT '',
			customer_email TEXT NOT NULL DEFAULT '',
			subtotal NUMERIC NOT NULL,
			tax NUMERIC NOT NULL,
			discount NUMERIC NOT NULL DEFAULT 0,
			total_amount NUMERIC NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			cashier_id TEXT NOT NULL,
			pharmacist_id TEXT,
			notes TEXT NOT NULL DEFAULT '',
			is_void BOOLEAN NOT NULL DEFAULT FALSE,
			void_reason TEXT,
			voided_by TEXT,
			voided_at TEXT,
			created_at TEXT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_receipt ON sales (receipt_number);`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			sale_id TEXT NOT NULL REFERENCES sales(id),
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC NOT NULL,
			line_total NUMERIC NOT NULL,
			prescription_required BOOLEAN NOT NULL DEFAULT FALSE,
			prescription_number TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items (sale_id);`,
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 0,
			tier TEXT NOT NULL DEFAULT 'bronze',
			total_spent NUMERIC NOT NULL DEFAULT 0,
			purchase_count INTEGER NOT NULL DEFAULT 0,
			last_purchase_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS loyalty_transactions (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL REFERENCES customers(id),
			kind TEXT NOT NULL,
			points INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			expires_at TEXT,
			created_by TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_loyalty_customer ON loyalty_transactions (customer_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
