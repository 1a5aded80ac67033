package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/panelhub/panel-link-service/internal/config"
	"github.com/panelhub/panel-link-service/internal/delivery/http/handlers"
	"github.com/panelhub/panel-link-service/internal/delivery/http/routes"
	"github.com/panelhub/panel-link-service/internal/gate"
	"github.com/panelhub/panel-link-service/internal/infrastructure/geoip"
	publisher "github.com/panelhub/panel-link-service/internal/infrastructure/kafka"
	"github.com/panelhub/panel-link-service/internal/infrastructure/metrics"
	"github.com/panelhub/panel-link-service/internal/infrastructure/migrate"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/repository"
	"github.com/panelhub/panel-link-service/internal/infrastructure/reputation"
	"github.com/panelhub/panel-link-service/internal/qc"
	"github.com/panelhub/panel-link-service/internal/qc/detectors"
	generation "github.com/panelhub/panel-link-service/internal/usecase/generation"
	linkusecase "github.com/panelhub/panel-link-service/internal/usecase/link"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.LinkDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.LinkDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	linkEventPublisher := publisher.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)

	// Init repos
	linkRepo := repository.NewDefaultLinkRepository(db)
	projectRepo := repository.NewDefaultProjectRepository(db)
	quotaRepo := repository.NewDefaultQuotaRepository(db)

	// Init external lookup clients
	geoClient := geoip.NewClient(cfg.GeoIPService.BaseURL, time.Duration(cfg.GeoIPService.TimeoutMs)*time.Millisecond, logger)
	reputationClient := reputation.NewClient(cfg.ReputationService.BaseURL, time.Duration(cfg.ReputationService.TimeoutMs)*time.Millisecond, logger)

	// Init scoring engine with the full detector set
	engine := qc.NewScoringEngine(qc.DefaultScoringPolicy(), logger)
	engine.RegisterDetector(detectors.NewDomainReputationDetector(reputationClient))
	engine.RegisterDetector(detectors.NewHoneypotDetector())
	engine.RegisterDetector(detectors.NewFlatlineDetector())
	engine.RegisterDetector(detectors.NewGeneratedTextDetector())
	engine.RegisterDetector(detectors.NewBehavioralDetector())
	engine.RegisterDetector(detectors.NewSpeedDetector())

	networkGate := gate.NewGate(logger)
	linkMetrics := metrics.NewLinkMetrics()

	// Init link usecase
	uc := linkusecase.NewDefaultLinkUsecase(
		linkRepo,
		projectRepo,
		quotaRepo,
		geoClient,
		networkGate,
		engine,
		linkEventPublisher,
		linkMetrics,
		logger,
	)

	// Init generation usecase
	generationUc := generation.NewDefaultGenerationUsecase(
		linkRepo,
		projectRepo,
		linkMetrics,
		logger,
		cfg.Lifecycle.ChunkSize,
		time.Duration(cfg.Lifecycle.ChunkDelayMs)*time.Millisecond,
	)

	// Stale click monitor
	go uc.StartStaleClickMonitor(
		context.Background(),
		5*time.Minute,
		time.Duration(cfg.Lifecycle.StaleClickHours)*time.Hour,
	)

	// HTTP server
	linkHandler := handlers.NewLinkHandler(uc)
	generationHandler := handlers.NewGenerationHandler(generationUc)
	router := routes.NewRouter(linkHandler, generationHandler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("link service started on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
