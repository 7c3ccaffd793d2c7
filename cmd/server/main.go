package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rpaetl/internal/config"
	"rpaetl/internal/dispatch/redisstream"
	"rpaetl/internal/dispatch/webhook"
	"rpaetl/internal/domain"
	"rpaetl/internal/handler"
	"rpaetl/internal/metrics"
	"rpaetl/internal/pipeline"
	redisclient "rpaetl/internal/platform/redis"
	"rpaetl/internal/port"
	"rpaetl/internal/reader"
	"rpaetl/internal/repository/postgres"
	"rpaetl/internal/router"
	"rpaetl/internal/service"
	s3storage "rpaetl/internal/storage/s3"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	var checks []handler.HealthCheck

	// Persistence is optional; without it every request behaves as a dry run.
	var execRepo port.ExecutionRepository
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		execRepo = postgres.NewExecutionRepo(db)
		checks = append(checks, handler.HealthCheck{Name: "database", Critical: true, Check: execRepo.Ping})
	} else {
		log.Printf("server: database disabled, executions will not be persisted")
	}

	// Initialize archive storage
	var archive port.ObjectStorage
	if cfg.S3.Enabled {
		archive, err = s3storage.NewArchive(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
	}

	// Initialize publishers
	publishers := service.NewPublisherRouter()
	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		publishers.Route(domain.PipelineEnterprise, redisstream.NewPublisher(rdb, cfg.Redis.Stream, cfg.Redis.MaxLen))
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: rdb.Health})
	}
	if cfg.Webhook.URL != "" {
		publishers.Route(domain.PipelineCustom, webhook.NewPublisher(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout))
	}

	// Initialize services
	orchestrator := pipeline.NewOrchestrator(reader.NewAuto())
	opts := []service.ProcessingOption{service.WithPublishers(publishers), service.WithMetrics(m)}
	if archive != nil {
		opts = append(opts, service.WithArchive(archive, service.ArchiveConfig{Bucket: cfg.S3.Bucket, Prefix: cfg.S3.Prefix}))
	}
	processingSvc := service.NewProcessingService(orchestrator, execRepo, opts...)

	// Initialize handlers
	healthH := handler.NewHealthHandler(cfg.App.Version, checks...)
	processH := handler.NewProcessHandler(processingSvc, cfg.Server.MaxUploadBytes(), cfg.Server.AllowedMIMETypes)
	var execH *handler.ExecutionHandler
	if execRepo != nil {
		execH = handler.NewExecutionHandler(service.NewExecutionService(execRepo))
	}

	// Start dispatch worker
	workerDone := make(chan struct{})
	if execRepo != nil {
		worker := service.NewDispatchWorker(execRepo, publishers, m, service.DispatchConfig{
			PollInterval: time.Duration(cfg.Dispatch.PollIntervalSecs) * time.Second,
			BatchSize:    cfg.Dispatch.BatchSize,
			Concurrency:  cfg.Dispatch.Concurrency,
			MaxAttempts:  cfg.Dispatch.MaxAttempts,
		})
		go func() {
			worker.Start(ctx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, healthH, processH, execH, promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		<-workerDone
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server: shutdown error: %v", err)
	}
	<-workerDone
	log.Printf("server: shutdown complete")
	return nil
}
