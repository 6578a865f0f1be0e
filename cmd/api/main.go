// Command api is the HTTP entrypoint for the support assistant backend.
// It wires configuration, storage, retrieval, notification channels, and
// the domain modules into a single Gin server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizgenie_backend/internal/appointments"
	"bizgenie_backend/internal/business"
	bizrepo "bizgenie_backend/internal/business/repository"
	"bizgenie_backend/internal/chat"
	chatservice "bizgenie_backend/internal/chat/service"
	"bizgenie_backend/internal/events"
	apphttp "bizgenie_backend/internal/http"
	"bizgenie_backend/internal/http/router"
	"bizgenie_backend/internal/leads"
	"bizgenie_backend/internal/notification"
	"bizgenie_backend/internal/notify"
	"bizgenie_backend/internal/rag"
	"bizgenie_backend/internal/scheduler"
	"bizgenie_backend/platform/ai/embeddings"
	"bizgenie_backend/platform/ai/llm"
	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/db"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/qdrant"
	"bizgenie_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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
	val := validator.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres comes up slower than this process in most deployments, so
	// migrations and the pool retry with backoff before giving up.
	err = withRetry(ctx, log, "migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	})
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

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

	bus := events.NewInMemoryBus(log)

	rdb, err := newRedisClient(cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	// Notification channels. Disabled channels return failed results per
	// dispatch instead of crashing the process.
	emailSender := notify.NewSMTPSender(cfg, log)
	whatsappSender := notify.NewUltraMsgSender(cfg, log)
	calendarSender := notify.NewInviteSender(cfg, emailSender)
	dispatcher := notify.NewDispatcher(cfg, log)

	retriever, ingestor := initRetrieval(ctx, cfg, pool, log)

	var completer chatservice.Completer
	if cfg.IsLLMEnabled() {
		completer = llm.NewClient(llm.Config{
			BaseURL: cfg.GetLLMBaseURL(),
			APIKey:  cfg.GetLLMAPIKey(),
			Model:   cfg.GetLLMModel(),
			Timeout: cfg.GetLLMTimeout(),
		})
	} else {
		log.Warn("LLM not configured, chat falls back to canned replies")
	}

	reminders, closeReminders := initReminderScheduler(cfg, log)
	defer closeReminders()

	notificationModule := notification.New(bizrepo.New(pool), emailSender, whatsappSender, log)
	notificationModule.RegisterHandlers(bus)

	businessModule := business.NewModule(pool, ingestor, bus, cfg, val, log)
	leadsModule := leads.NewModule(pool, bus, log)
	appointmentsModule := appointments.NewModule(pool, appointments.Dependencies{
		Reminders:  reminders,
		Dispatcher: dispatcher,
		Email:      emailSender,
		WhatsApp:   whatsappSender,
		Calendar:   calendarSender,
		Bus:        bus,
	}, cfg, val, log)
	chatModule := chat.NewModule(chat.Dependencies{
		Businesses: businessModule.Service(),
		Retriever:  retriever,
		Completer:  completer,
		Email:      emailSender,
		WhatsApp:   whatsappSender,
		Calendar:   calendarSender,
		Dispatcher: dispatcher,
		Redis:      rdb,
		Bus:        bus,
	}, cfg, val, log)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			businessModule,
			chatModule,
			leadsModule,
			appointmentsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", "error", err)
	}

	// In-flight async work finishes before the pool and Redis close.
	dispatcher.Wait()
	bus.Wait()

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

// newRedisClient connects to Redis for conversation storage. Redis is
// required: chat history and the reminder queue both live there.
func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// initRetrieval builds the document retrieval pipeline. Keyword search over
// Postgres always works; the vector leg is added when both an embedding API
// and Qdrant are configured. The ingestor indexes into whichever legs exist.
func initRetrieval(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (rag.Retriever, *rag.Ingestor) {
	repo := rag.NewRepository(pool)
	keyword := rag.NewKeywordRetriever(repo)

	var embedder rag.Embedder
	if cfg.IsEmbeddingEnabled() {
		embedder = embeddings.NewClient(embeddings.Config{
			BaseURL: cfg.GetEmbeddingAPIURL(),
			APIKey:  cfg.GetEmbeddingAPIKey(),
		})
	}

	var store *qdrant.Client
	if cfg.IsQdrantEnabled() {
		store = qdrant.NewClient(qdrant.Config{
			BaseURL:    cfg.GetQdrantURL(),
			APIKey:     cfg.GetQdrantAPIKey(),
			Collection: cfg.GetQdrantCollection(),
		})
		if err := store.EnsureCollection(ctx, cfg.GetEmbeddingDimensions()); err != nil {
			log.UpstreamError("qdrant", "ensure_collection", err)
			store = nil
		}
	}

	if embedder == nil || store == nil {
		log.Warn("vector search disabled, using keyword retrieval only")
		return keyword, rag.NewIngestor(repo, nil, nil, cfg.GetRAGChunkSize(), log)
	}

	vector := rag.NewVectorRetriever(embedder, store)
	retriever := rag.NewCompositeRetriever(vector, keyword, log)
	ingestor := rag.NewIngestor(repo, embedder, store, cfg.GetRAGChunkSize(), log)
	return retriever, ingestor
}

// initReminderScheduler returns the asynq-backed reminder scheduler, or nil
// when Redis is not configured. A nil scheduler means bookings succeed but
// no reminders are queued.
func initReminderScheduler(cfg *config.Config, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Warn("reminder scheduler disabled", "error", err)
		return nil, func() {}
	}

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error("close scheduler client", "error", err)
		}
	}
}
