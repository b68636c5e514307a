package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"jelpapharm/server/internal/api"
	"jelpapharm/server/internal/auth"
	"jelpapharm/server/internal/config"
	"jelpapharm/server/internal/database"
	"jelpapharm/server/internal/loyalty"
	"jelpapharm/server/internal/migrations"
	"jelpapharm/server/internal/sales"
	"jelpapharm/server/internal/seed"
	"jelpapharm/server/internal/sequence"
	"jelpapharm/server/internal/stock"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.LoadItems(db, "assets/items.csv")

	stockLedger := stock.NewLedger(db)
	loyaltyLedger := loyalty.NewLedger(db)
	policy := auth.DefaultPolicy()
	seq := sequence.New()
	engine := sales.NewEngine(db, stockLedger, loyaltyLedger, seq, policy,
		cfg.TaxRate, cfg.AllowOverDiscount, cfg.ReceiptRetries)

	handler := api.New(db, cfg.Secret, policy, engine, stockLedger, loyaltyLedger, seq)

	log.Printf("JelpaPharm server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
