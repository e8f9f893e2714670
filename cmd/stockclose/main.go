package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/ariefcatur/go-resto-pos.git/internal/config"
	"github.com/ariefcatur/go-resto-pos.git/internal/orders"
	"github.com/ariefcatur/go-resto-pos.git/internal/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// One-shot daily close, dipanggil dari cron. Idempotent: aman dijalankan
// ulang untuk tanggal yang sama.
func main() {
	_ = godotenv.Load()
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "stockclose").Logger()

	dateArg := flag.String("date", "", "close date (YYYY-MM-DD), default today")
	flag.Parse()

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if *dateArg != "" {
		d, err := time.Parse("2006-01-02", *dateArg)
		if err != nil {
			log.Fatal().Err(err).Str("date", *dateArg).Msg("invalid -date")
		}
		day = d
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	daily := &orders.DailyStockRepo{DB: db}
	n, err := daily.CloseDay(ctx, day)
	if err != nil {
		log.Fatal().Err(err).Msg("close daily stock")
	}
	log.Info().Str("date", day.Format("2006-01-02")).Int("products", n).Msg("daily stock closed")
}
