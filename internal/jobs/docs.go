// Package jobs provides scheduled background tasks for the batching
// engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic maintenance the engine needs.
//
// # Available Jobs
//
// 1. ConsolidationJob - Runs every five minutes to merge under-filled open
// batches region by region
// 2. StrandedRecoveryJob - Runs every ten minutes to rebatch approved
// orders that lost their batch reference to a partial failure
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(consolidateHandler, recoverHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both jobs log failures and leave the affected region or order for the
// next run; a scheduled pass never takes the process down. Failed job
// starts stop any already running jobs.
package jobs
