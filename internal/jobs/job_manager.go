package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	consolidationJob    *ConsolidationJob
	strandedRecoveryJob *StrandedRecoveryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	consolidateHandler commands.ConsolidateBatchesCommandHandler,
	recoverHandler commands.RecoverStrandedOrdersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		consolidationJob:    NewConsolidationJob(consolidateHandler, logger),
		strandedRecoveryJob: NewStrandedRecoveryJob(recoverHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.consolidationJob.Start(); err != nil {
		return fmt.Errorf("failed to start consolidation job: %w", err)
	}

	if err := jm.strandedRecoveryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.consolidationJob.Stop()
		return fmt.Errorf("failed to start stranded recovery job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.strandedRecoveryJob.Stop()
	jm.consolidationJob.Stop()
}
