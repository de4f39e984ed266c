package scheduler

import (
	"log"
	"time"

	"marketplace-backend/internal/jobs"

	"github.com/robfig/cron/v3"
)

// Schedules, overridable via env in a later iteration if ops needs it
const (
	markOverdueSettlementsSpec  = "0 1 * * *"     // daily at 01:00 UTC
	expireStaleCustomOrdersSpec = "*/5 * * * *"   // every 5 minutes
	cleanupRefreshTokensSpec    = "30 2 * * *"    // daily at 02:30 UTC
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	if _, err := s.cron.AddFunc(markOverdueSettlementsSpec, s.jobs.MarkOverdueSettlements); err != nil {
		log.Printf("Failed to register MarkOverdueSettlements job: %v", err)
	}
	if _, err := s.cron.AddFunc(expireStaleCustomOrdersSpec, s.jobs.ExpireStaleCustomOrders); err != nil {
		log.Printf("Failed to register ExpireStaleCustomOrders job: %v", err)
	}
	if _, err := s.cron.AddFunc(cleanupRefreshTokensSpec, s.jobs.CleanupExpiredRefreshTokens); err != nil {
		log.Printf("Failed to register CleanupExpiredRefreshTokens job: %v", err)
	}
	log.Println("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}
