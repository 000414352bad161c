package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/regionlock"

	"github.com/robfig/cron/v3"
)

// ConsolidationJob manages the scheduled consolidation of open batches.
// Runs every five minutes to merge under-filled batches region by region.
type ConsolidationJob struct {
	handler commands.ConsolidateBatchesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewConsolidationJob creates a new job for batch consolidation.
func NewConsolidationJob(handler commands.ConsolidateBatchesCommandHandler, logger *slog.Logger) *ConsolidationJob {
	return &ConsolidationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "consolidation_job"),
	}
}

// Start begins the consolidation job to run every five minutes.
func (j *ConsolidationJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewConsolidateAllBatchesCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// Lock contention means an allocation is in flight; the next
			// run picks the region up again.
			if errors.Is(err, regionlock.ErrLockTimeout) {
				j.logger.InfoContext(ctx, "Consolidation skipped a contended region", "error", err)
				return
			}

			j.logger.ErrorContext(ctx, "Consolidation job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Consolidation job started (running every five minutes)")
	return nil
}

// Stop stops the consolidation job.
func (j *ConsolidationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Consolidation job stopped")
}
