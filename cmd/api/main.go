package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"temple-receipt-service/config"
	certGateway "temple-receipt-service/internal/adapter/gateway/certificate"
	emailGateway "temple-receipt-service/internal/adapter/gateway/email"
	waGateway "temple-receipt-service/internal/adapter/gateway/whatsapp"
	httpHandler "temple-receipt-service/internal/adapter/http/handler"
	pgStorage "temple-receipt-service/internal/adapter/storage/postgres"
	redisStorage "temple-receipt-service/internal/adapter/storage/redis"
	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/internal/service"
	"temple-receipt-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Temple Receipt Service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	sequenceRepo := pgStorage.NewSequenceRepo(pool)
	recordRepo := pgStorage.NewRecordRepo(pool)
	jobRepo := pgStorage.NewJobRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	dedupeStore := redisStorage.NewDedupeStore(rdb)

	// Worker pool for everything off the request path
	tasks := service.NewTaskPool(cfg.Worker.PoolSize, cfg.Worker.QueueSize, log)
	tasks.Start()

	// The rate limiter guards the chat gateway only; the email provider
	// imposes no throughput ceiling.
	limiter := service.NewMessageRateLimiter(cfg.Limits.RatePerSecond, cfg.Limits.Burst, cfg.Limits.PerMinute)
	waSender := waGateway.NewSender(cfg.WhatsApp, limiter, logger.Component(log, "whatsapp"))
	emailSender := emailGateway.NewSender(cfg.Email, logger.Component(log, "email"))

	certSvc := certGateway.NewClient(cfg.Certificate, tasks, logger.Component(log, "certificate"))

	// Admin alerting over the same channels
	alertSvc := service.NewAdminAlertService(log)
	alertSvc.AddTarget(waSender, cfg.WhatsApp.AdminNumber)
	alertSvc.AddTarget(emailSender, cfg.Email.AdminAddress)

	// Initialize core services
	metrics := service.NewDeliveryMetrics()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	paymentVerifier := service.NewPaymentSignatureVerifier(cfg.Payment.KeySecret)

	dispatchSvc := service.NewDispatchService(
		[]ports.ChannelSender{waSender, emailSender},
		jobRepo,
		metrics,
		alertSvc,
		cfg.WhatsApp.AdminNumber,
		logger.Component(log, "dispatch"),
	)
	ingestSvc := service.NewIngestService(jobRepo, dedupeStore, metrics, alertSvc, cfg.Limits.DedupeTTL, logger.Component(log, "ingest"))
	receiptSvc := service.NewReceiptService(sequenceRepo, recordRepo, transactor, certSvc, dispatchSvc, tasks, logger.Component(log, "receipt"))
	recordSvc := service.NewRecordService(recordRepo, auditRepo, logger.Component(log, "record"))

	// Callback signature verification is tied to having a public URL.
	var callbackVerifier ports.CallbackVerifier
	if cfg.WhatsApp.StatusCallbackURL != "" {
		callbackVerifier = service.NewCallbackSignatureVerifier(cfg.WhatsApp.AuthToken)
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)
	certHealth := certGateway.NewHealthCheck(cfg.Certificate)
	waHealth := waGateway.NewHealthCheck(cfg.WhatsApp)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Processor:        receiptSvc,
		PaymentVerifier:  paymentVerifier,
		IngestSvc:        ingestSvc,
		CallbackVerifier: callbackVerifier,
		CallbackURL:      cfg.WhatsApp.StatusCallbackURL,
		RecordSvc:        recordSvc,
		TokenSvc:         tokenSvc,
		Metrics:          metrics,
		AlertSvc:         alertSvc,
		HealthCheckers:   []ports.HealthChecker{pgHealth, redisHealth, certHealth, waHealth},
		Logger:           log,
	})

	// HTTP server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain queued certificate and dispatch work before letting the
	// database and Redis connections close.
	if err := tasks.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Worker pool did not drain in time")
	}

	log.Info().Msg("Server exited")
}
