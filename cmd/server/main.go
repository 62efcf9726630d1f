package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	api "pa-onboarding-backend/internal/api/http"
	"pa-onboarding-backend/internal/config"
	"pa-onboarding-backend/internal/jobs"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/repository/postgres"
	"pa-onboarding-backend/internal/scheduler"
	"pa-onboarding-backend/internal/security"
	"pa-onboarding-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting PA onboarding backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

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

	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenMinutes)*time.Minute,
	)

	docSvc := service.NewDocumentService(cfg.Documents)
	emailSvc := service.NewEmailService(cfg.Email)
	authSvc := service.NewAuthService(
		store.UserRepository,
		store.SessionRepository,
		tokenManager,
		time.Duration(cfg.JWT.RefreshTokenMinutes)*time.Minute,
	)
	onboardingSvc := service.NewOnboardingService(
		store.RequestRepository,
		store.AdministrationRepository,
		docSvc,
	)
	actionSvc := service.NewActionService(
		store.RequestRepository,
		docSvc,
		emailSvc,
	)
	adminSvc := service.NewAdministrationService(store.AdministrationRepository)

	jobRunner := jobs.NewJobRunner(store.RequestRepository, store.SessionRepository, emailSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(tokenManager, authSvc, onboardingSvc, actionSvc, docSvc, adminSvc)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
