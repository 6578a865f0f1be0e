// Command worker runs the asynq consumer that delivers scheduled
// appointment reminders over email and WhatsApp.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizgenie_backend/internal/notify"
	"bizgenie_backend/internal/scheduler"
	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/db"
	"bizgenie_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	err = withRetry(ctx, log, "database", 5, 2*time.Second, func() error {
		var poolErr error
		pool, poolErr = db.NewPool(ctx, cfg)
		return poolErr
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	emailSender := notify.NewSMTPSender(cfg, log)
	whatsappSender := notify.NewUltraMsgSender(cfg, log)

	worker, err := scheduler.NewWorker(cfg, pool, emailSender, whatsappSender, log)
	if err != nil {
		return fmt.Errorf("create worker: %w", err)
	}

	log.Info("reminder worker starting", "queue", cfg.GetAsynqQueueName())
	worker.Run(ctx)

	log.Info("shutdown complete")
	return nil
}

// withRetry runs fn up to attempts times with quadratic backoff between
// tries. It stops early when ctx is cancelled.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		delay := time.Duration(attempt*attempt) * baseDelay
		log.Warn("startup step failed, retrying",
			"step", name,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
