package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-resto-pos.git/internal/config"
	"github.com/ariefcatur/go-resto-pos.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-resto-pos.git/internal/kafka"
	"github.com/ariefcatur/go-resto-pos.git/internal/orders"
	"github.com/ariefcatur/go-resto-pos.git/internal/postgres"
	"github.com/ariefcatur/go-resto-pos.git/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "api").Logger()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers: order.created & order.ready
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pReady := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderReady, 1024)
	pReady.Start(ctx)

	// Repos & handlers
	repo := &orders.Repo{DB: db}
	ledger := &orders.LedgerRepo{DB: db}
	daily := &orders.DailyStockRepo{DB: db}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Repo:        repo,
		CreatedProd: pCreated,
		ReadyProd:   pReady,
		Redis:       rdb,
		Service:     cfg.ServiceName,
	}
	oh.Register(router)
	sh := &httpx.StockHandler{Ledger: ledger, Daily: daily}
	sh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close() // tutup inbox -> flush & close writer
	pReady.Close()
	cancel() // stop producer loops
	pCreated.WaitClosed()
	pReady.WaitClosed()
}
