package jobs

import (
	"context"
	"time"

	"pa-onboarding-backend/internal/config"
	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/repository"
	"pa-onboarding-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	requestRepo repository.RequestRepository
	sessionRepo repository.SessionRepository
	emailSvc    service.EmailService
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	requestRepo repository.RequestRepository,
	sessionRepo repository.SessionRepository,
	emailSvc service.EmailService,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		requestRepo: requestRepo,
		sessionRepo: sessionRepo,
		emailSvc:    emailSvc,
		config:      cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// SendCreatedRequestReminders emails every requester who still has CREATED
// requests older than the configured age. One email per requester, not per
// request.
func (jr *JobRunner) SendCreatedRequestReminders() {
	jr.runWithRecovery("SendCreatedRequestReminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		cutoff := time.Now().AddDate(0, 0, -jr.config.Scheduler.ReminderAgeDays)
		stale, err := jr.requestRepo.ListStaleCreated(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale requests", "error", err)
			return
		}

		byRequester := make(map[string][]domain.Request)
		for _, req := range stale {
			byRequester[req.RequesterEmail] = append(byRequester[req.RequesterEmail], req)
		}

		for email, requests := range byRequester {
			name := email
			if requests[0].Requester != nil {
				name = requests[0].Requester.FirstName + " " + requests[0].Requester.FamilyName
			}
			if err := jr.emailSvc.SendRequestReminder(ctx, email, name, len(requests)); err != nil {
				logger.Error("Failed to send request reminder", "requester", email, "error", err)
				continue
			}
			logger.Info("Request reminder sent", "requester", email, "pending", len(requests))
		}
	})
}

// PurgeExpiredSessions removes refresh sessions past their expiry.
func (jr *JobRunner) PurgeExpiredSessions() {
	jr.runWithRecovery("PurgeExpiredSessions", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		deleted, err := jr.sessionRepo.DeleteExpired(ctx)
		if err != nil {
			logger.Error("Failed to purge expired sessions", "error", err)
			return
		}
		logger.Info("Expired sessions purged", "deleted", deleted)
	})
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendCreatedRequestReminders()
	jr.PurgeExpiredSessions()
}
