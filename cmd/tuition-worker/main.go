package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"escolar/internal/amqp"
	"escolar/internal/config"
	"escolar/internal/core"
	"escolar/internal/log"
	"escolar/internal/services"
	"escolar/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting tuition-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	generator := services.NewTuitionGenerator(repo, repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ledger events nudge the worker between ticks, so a student enrolled
	// on the generation day gets charged without waiting a full interval.
	wake := make(chan struct{}, 1)
	if cfg.AMQPURL != "" {
		events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP connection failed - relying on the ticker alone", "error", err)
		} else {
			defer events.Close()
			go func() {
				err := events.ConsumeLedgerEvents(ctx, wakeOnLedgerEvent(wake))
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Ledger event consumption stopped", "error", err)
				}
			}()
		}
	}

	logger.Info("Tuition generator configured",
		"generation_day", cfg.TuitionGenerationDay,
		"check_interval", cfg.TuitionCheckInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	// Run an initial check on startup, then on every tick.
	runOnce(ctx, logger, generator, cfg.TuitionGenerationDay, time.Now())

	ticker := time.NewTicker(cfg.TuitionCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Tuition-worker shutdown complete")
			return
		case now := <-ticker.C:
			runOnce(ctx, logger, generator, cfg.TuitionGenerationDay, now)
		case <-wake:
			runOnce(ctx, logger, generator, cfg.TuitionGenerationDay, time.Now())
		}
	}
}

// wakeOnLedgerEvent acknowledges every event and nudges the run loop.
// The send never blocks; a pending nudge already covers new arrivals.
func wakeOnLedgerEvent(wake chan<- struct{}) func(*amqp.LedgerEvent) error {
	return func(*amqp.LedgerEvent) error {
		select {
		case wake <- struct{}{}:
		default:
		}
		return nil
	}
}

// runOnce generates the month's tuition charges when the generation day has
// arrived and the month has none yet. The dueness check makes restarts and
// overlapping ticks harmless.
func runOnce(ctx context.Context, logger *log.Logger, generator *services.TuitionGenerator, generationDay int, now time.Time) {
	today := core.DateOf(now)

	if today.Day() < generationDay {
		logger.Debug("Generation day not reached", "day", today.Day(), "generation_day", generationDay)
		return
	}

	exists, err := generator.HasTuitionForMonth(ctx, today)
	if err != nil {
		logger.Error("Dueness check failed", "error", err)
		return
	}
	if exists {
		logger.Debug("Tuition already generated for month", "month", today.Format("2006-01"))
		return
	}

	count, err := generator.GenerateMonthly(ctx, today)
	if err != nil {
		logger.Error("Tuition generation failed", "error", err)
		return
	}
	logger.Info("Tuition batch generated",
		"charges_created", count,
		"month", today.Format("2006-01"))
}
