package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ExchangeLedger/internal/bot"
	"ExchangeLedger/internal/config"
	"ExchangeLedger/internal/ledger"
	"ExchangeLedger/internal/logbook"
	"ExchangeLedger/internal/notifier"
	"ExchangeLedger/internal/scheduler"
	"ExchangeLedger/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ExchangeLedger starting...")

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Ledger.Timezone)
	if err != nil {
		log.Fatalf("[FATAL] load timezone %q: %v", cfg.Ledger.Timezone, err)
	}

	// Init ledger store (restores last snapshot)
	st, err := store.New(cfg.Ledger.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init ledger store: %v", err)
	}

	// Init durable log writer
	book, err := logbook.New(cfg.Ledger.LogDir)
	if err != nil {
		log.Fatalf("[FATAL] init log writer: %v", err)
	}

	// Init ledger service with the reporting timezone pinned
	svc := ledger.NewService(st, book, cfg.Ledger.IDPrefix).
		WithClock(func() time.Time { return time.Now().In(loc) })

	// Init Telegram client and command router
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)
	router := bot.NewRouter(svc, tn, cfg.Currency.Fiat, cfg.Currency.Crypto, cfg.Telegram.AdminOnly)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler (daily reset)
	sched := scheduler.NewScheduler(svc, loc)
	if err := sched.RegisterAll(cfg.Schedule.DailyResetCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, router.HandleUpdate)
	log.Println("[INFO] Telegram polling started")

	log.Println("[INFO] ExchangeLedger is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ExchangeLedger stopped")
}
