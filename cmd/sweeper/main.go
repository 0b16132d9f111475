package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	httpapi "liblend-backend/internal/api/http"
	"liblend-backend/internal/config"
	"liblend-backend/internal/jobs"
	"liblend-backend/internal/logger"
	"liblend-backend/internal/repository"
	"liblend-backend/internal/repository/memory"
	"liblend-backend/internal/repository/postgres"
	"liblend-backend/internal/scheduler"
	"liblend-backend/internal/seed"
	"liblend-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'auto-return-expired')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting lending sweeper...", "log_level", cfg.Log.Level, "store", cfg.Store.Type)

	// Initialize the store
	var (
		bookRepo   repository.BookRepository
		borrowRepo repository.BorrowRepository
	)
	switch cfg.Store.Type {
	case "memory":
		logger.Warn("Using in-memory store; lending state will not survive restarts")
		store := memory.NewStore()
		bookRepo = store.BookRepository
		borrowRepo = store.BorrowRepository

		// The memory store starts empty, so give it the starter catalog.
		created, err := seed.Populate(context.Background(), bookRepo, seed.SampleBooks(time.Now().UTC()))
		if err != nil {
			log.Fatalf("Failed to seed starter catalog: %v", err)
		}
		logger.Info("Seeded starter catalog", "books", created)
	default:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		bookRepo = store.BookRepository
		borrowRepo = store.BorrowRepository
	}

	// Initialize Services
	lendingService := service.NewLendingService(bookRepo, borrowRepo)
	catalogService := service.NewCatalogService(bookRepo, borrowRepo)
	emailService := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromName, cfg.SendGrid.FromEmail)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Services{
		Lending: lendingService,
		Catalog: catalogService,
		Email:   emailService,
	}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Sweep scheduler is running. Press Ctrl+C to stop.")

	// Operational HTTP endpoints
	router := mux.NewRouter()
	httpapi.RegisterOpsRoutes(router, catalogService, cronScheduler)

	httpServer := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}
	go func() {
		logger.Info("Operational HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down sweeper...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	cronScheduler.Stop()
	logger.Info("Sweeper stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "auto-return-expired":
		jobRunner.AutoReturnExpired()
	case "send-return-reminders":
		jobRunner.SendReturnReminders()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - auto-return-expired\n")
		fmt.Printf("  - send-return-reminders\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
