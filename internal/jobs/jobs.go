package jobs

import (
	"context"
	"log"
	"time"

	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	settlementService service.SettlementService
	customOrderRepo   repository.CustomOrderRepository
	userRepo          repository.UserRepository
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	settlementService service.SettlementService,
	customOrderRepo repository.CustomOrderRepository,
	userRepo repository.UserRepository,
) *JobRunner {
	return &JobRunner{
		settlementService: settlementService,
		customOrderRepo:   customOrderRepo,
		userRepo:          userRepo,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Job %s panicked: %v", jobName, r)
		}
	}()

	log.Printf("Starting job: %s", jobName)
	jobFunc()
	log.Printf("Job completed: %s", jobName)
}

// MarkOverdueSettlements flips pending settlements past their due date to overdue
func (jr *JobRunner) MarkOverdueSettlements() {
	jr.runWithRecovery("MarkOverdueSettlements", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		count, err := jr.settlementService.MarkOverdue(ctx)
		if err != nil {
			log.Printf("MarkOverdueSettlements failed: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Marked %d settlements overdue", count)
		}
	})
}

// ExpireStaleCustomOrders marks unpriced requests past their deadline as expired
func (jr *JobRunner) ExpireStaleCustomOrders() {
	jr.runWithRecovery("ExpireStaleCustomOrders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		count, err := jr.customOrderRepo.ExpirePastDeadline(ctx, time.Now())
		if err != nil {
			log.Printf("ExpireStaleCustomOrders failed: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Expired %d custom order requests", count)
		}
	})
}

// CleanupExpiredRefreshTokens removes refresh tokens past their expiry
func (jr *JobRunner) CleanupExpiredRefreshTokens() {
	jr.runWithRecovery("CleanupExpiredRefreshTokens", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := jr.userRepo.DeleteExpiredRefreshTokens(ctx, time.Now()); err != nil {
			log.Printf("CleanupExpiredRefreshTokens failed: %v", err)
		}
	})
}
