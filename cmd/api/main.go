package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/egresswatch/egresswatch/internal/analysis"
	"github.com/egresswatch/egresswatch/internal/api/handlers"
	"github.com/egresswatch/egresswatch/internal/api/router"
	"github.com/egresswatch/egresswatch/internal/collector"
	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/integrations"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/services"
	"github.com/egresswatch/egresswatch/internal/storage"
	"github.com/egresswatch/egresswatch/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log := logger.Default()

	db, err := storage.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations: " + err.Error())
	}

	// Repositories
	runRepo := storage.NewRunRepository(db)
	trendRepo := storage.NewTrendRepository(db)
	costRepo := storage.NewCostRepository(db)
	anomalyRepo := storage.NewAnomalyRepository(db)
	recRepo := storage.NewRecommendationRepository(db)

	// Analysis pipeline
	table := analysis.DefaultPricingTable()
	if cfg.Pricing.TablePath != "" {
		table, err = analysis.LoadPricingTable(cfg.Pricing.TablePath)
		if err != nil {
			log.Fatal("Failed to load pricing table: " + err.Error())
		}
	}
	runner, err := analysis.NewRunner(cfg, table, log)
	if err != nil {
		log.Fatal("Failed to build analysis runner: " + err.Error())
	}

	collectors, err := collector.FromConfig(cfg.Collector, log)
	if err != nil {
		log.Fatal("Failed to build collectors: " + err.Error())
	}

	explainer := integrations.NewExplainer(cfg.OpenAI.APIKey, log)

	// Services
	monitorService := services.NewMonitorService(
		collectors, runner, explainer,
		runRepo, trendRepo, costRepo, anomalyRepo, recRepo,
		cfg, log,
	)
	runService := services.NewRunService(runRepo, monitorService, log)
	trendService := services.NewTrendService(trendRepo, log)
	costService := services.NewCostService(costRepo, log)
	anomalyService := services.NewAnomalyService(anomalyRepo, log)
	recService := services.NewRecommendationService(recRepo, log)

	// HTTP layer
	h := &router.Handlers{
		Health:         handlers.NewHealthHandler(db, log),
		Run:            handlers.NewRunHandler(runService, log),
		Trend:          handlers.NewTrendHandler(trendService, log),
		Cost:           handlers.NewCostHandler(costService, log),
		Anomaly:        handlers.NewAnomalyHandler(anomalyService, log),
		Recommendation: handlers.NewRecommendationHandler(recService, log),
		Summary: handlers.NewSummaryHandler(
			runService, trendService, costService, anomalyService, recService, log,
		),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := worker.NewScheduler(monitorService, cfg.Scheduler, log)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler: " + err.Error())
	}

	go func() {
		log.Info("API server listening on " + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: " + err.Error())
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}
