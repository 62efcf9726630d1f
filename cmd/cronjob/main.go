package main

import (
	"database/sql"
	"flag"
	"log"

	"pa-onboarding-backend/internal/config"
	"pa-onboarding-backend/internal/jobs"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/repository/postgres"
	"pa-onboarding-backend/internal/service"

	_ "github.com/lib/pq"
)

// Runs every scheduled job once and exits. Useful for operating the jobs
// from an external scheduler instead of the in-process cron.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	jobName := flag.String("job", "all", "Job to run: reminders, purge-sessions, all")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	emailSvc := service.NewEmailService(cfg.Email)
	runner := jobs.NewJobRunner(store.RequestRepository, store.SessionRepository, emailSvc, cfg)

	switch *jobName {
	case "reminders":
		runner.SendCreatedRequestReminders()
	case "purge-sessions":
		runner.PurgeExpiredSessions()
	case "all":
		runner.RunAll()
	default:
		log.Fatalf("Unknown job: %s", *jobName)
	}
}
