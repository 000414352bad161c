package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StrandedRecoveryJob manages the scheduled rebatching of stranded
// orders. Runs every ten minutes; per-order failures are handled inside
// the command and retried on the next run.
type StrandedRecoveryJob struct {
	handler commands.RecoverStrandedOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStrandedRecoveryJob creates a new job for stranded order recovery.
func NewStrandedRecoveryJob(handler commands.RecoverStrandedOrdersCommandHandler, logger *slog.Logger) *StrandedRecoveryJob {
	return &StrandedRecoveryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "stranded_recovery_job"),
	}
}

// Start begins the recovery job to run every ten minutes.
func (j *StrandedRecoveryJob) Start() error {
	_, err := j.cron.AddFunc("0 */10 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRecoverStrandedOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Stranded recovery job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stranded recovery job started (running every ten minutes)")
	return nil
}

// Stop stops the recovery job.
func (j *StrandedRecoveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stranded recovery job stopped")
}
