package database

import (
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Connect opens the backing store for the given DSN. Postgres DSNs use the
// pgx driver; anything else is treated as a SQLite path. Queries throughout
// the repo are written with ? bindvars and rebound per driver.
func Connect(dsn string) *sqlx.DB {
	db, err := Open(dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

// Open is Connect without the fatal exit, for callers that want the error.
func Open(dsn string) (*sqlx.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// modernc sqlite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent commits.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
	}
	return db, nil
}
