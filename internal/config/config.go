package config

import (
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string

	// TaxRate is applied to every sale's subtotal. Fixed at process start.
	TaxRate decimal.Decimal

	// AllowOverDiscount accepts discounts exceeding subtotal+tax, which can
	// drive totals negative. When false such carts are rejected.
	AllowOverDiscount bool

	// ReceiptRetries bounds regeneration attempts on a receipt number collision.
	ReceiptRetries int
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := getenv("SECRET", "dev_secret")
	port := getenv("HTTP_PORT", "8080")
	dsn := getenv("DATABASE_DSN", "file:jelpapharm.db")

	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	taxRate, err := decimal.NewFromString(getenv("TAX_RATE", "0.125"))
	if err != nil || taxRate.IsNegative() {
		log.Printf("invalid TAX_RATE value, defaulting to 0.125")
		taxRate = decimal.NewFromFloat(0.125)
	}

	allowOver := getenv("ALLOW_OVER_DISCOUNT", "true") == "true"

	retries, err := strconv.Atoi(getenv("RECEIPT_RETRIES", "3"))
	if err != nil || retries < 1 {
		retries = 3
	}

	return Config{
		Secret:            secret,
		DatabaseDSN:       dsn,
		HTTPPort:          port,
		TaxRate:           taxRate,
		AllowOverDiscount: allowOver,
		ReceiptRetries:    retries,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
