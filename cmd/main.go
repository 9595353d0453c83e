package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"riskmap_service/internal/api"
	"riskmap_service/internal/config"
	"riskmap_service/internal/core"
	"riskmap_service/internal/domain/repository"
	"riskmap_service/internal/infrastructure/alerts"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Источник проектов
	var projects core.ProjectRepository
	if cfg.PostgresURL != "" {
		postgresRepo, err := repository.NewPostgresRepository(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to init postgres repository: %v", err)
		}
		defer postgresRepo.Close()
		projects = postgresRepo
	} else {
		fileRepo, err := repository.NewFileRepository(cfg.ProjectsFile)
		if err != nil {
			log.Fatalf("Failed to load projects file: %v", err)
		}
		log.Printf("Using projects from %s", cfg.ProjectsFile)
		projects = fileRepo
	}

	var zones core.ProtectedZoneFinder
	if cfg.OverpassURL != "" {
		zones = repository.NewOverpassRepository(cfg.OverpassURL, cfg.OverpassTimeout)
	}

	var publisher interface {
		core.AlertPublisher
		Close() error
	} = alerts.LogPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = alerts.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAlertsTopic)
	}
	defer publisher.Close()

	riskService := core.NewRiskService(projects, zones, publisher, cfg.AlertHorizonDays)

	handler := api.NewHandler(riskService)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
