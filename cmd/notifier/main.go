package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ariefcatur/go-resto-pos.git/internal/config"
	kafkax "github.com/ariefcatur/go-resto-pos.git/internal/kafka"
	"github.com/ariefcatur/go-resto-pos.git/internal/notify"
	"github.com/ariefcatur/go-resto-pos.git/internal/orders"
	"github.com/ariefcatur/go-resto-pos.git/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func mustAtoi(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func main() {
	_ = godotenv.Load()
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "notifier").Logger()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	workers := mustAtoi(cfg.NotifierWorkers, 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, orders.TopicOrderReady, workers)

	go func() {
		log.Info().Str("group", cfg.NotifierGroup).Str("topic", orders.TopicOrderReady).
			Int("workers", workers).Msg("notifier consumer started")
		if err := cons.Start(ctx, svc.HandleOrderReady); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down notifier...")
	cancel()
}
