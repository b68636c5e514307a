package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"jelpapharm/server/domain"
)

// LoadItems ingests the CSV into the inventory table on first boot. A
// non-empty inventory table is left untouched so reseeding is a no-op.
func LoadItems(db *sqlx.DB, csvPath string) {
	var existing int64
	if err := db.Get(&existing, `SELECT COUNT(*) FROM inventory`); err != nil {
		log.Printf("unable to inspect inventory before seeding: %v", err)
		return
	}
	if existing > 0 {
		return
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load item catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read item header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start item seed transaction: %v", err)
		return
	}
	insert := db.Rebind(`INSERT INTO inventory
		(id, name, brand, category, quantity, cost_price, sale_price, reorder_level, expiry_date, prescription_required, status, total_sold, total_revenue, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`)
	stmt, err := tx.Preparex(insert)
	if err != nil {
		log.Printf("unable to prepare item insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read item row: %v", err)
			continue
		}
		if len(record) < 9 {
			continue
		}
		name := strings.TrimSpace(record[0])
		brand := strings.TrimSpace(record[1])
		category := strings.TrimSpace(record[2])
		if name == "" {
			continue
		}

		quantity, _ := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		cost, err := decimal.NewFromString(strings.TrimSpace(record[4]))
		if err != nil {
			log.Printf("unable to parse cost price for %s: %v", name, err)
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[5]))
		if err != nil {
			log.Printf("unable to parse sale price for %s: %v", name, err)
			continue
		}
		reorder, _ := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
		var expiry *string
		if e := strings.TrimSpace(record[7]); e != "" {
			expiry = &e
		}
		rx := strings.EqualFold(strings.TrimSpace(record[8]), "yes")

		if _, err := stmt.Exec(uuid.NewString(), name, brand, category, quantity, cost, price, reorder, expiry, rx, domain.ItemActive, now, now); err != nil {
			log.Printf("unable to insert item %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit item seed: %v", err)
	} else {
		log.Printf("seeded inventory catalog with %d items", rows)
	}
}
