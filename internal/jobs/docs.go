// Package jobs runs dispatch in the background.
//
// # Workers
//
//  1. DispatchPool - in-process DispatchQueue; a fixed set of goroutines runs
//     each queued order through a DispatchRunner.
//  2. DispatchSweepJob - cron job (github.com/robfig/cron/v3) that re-enqueues
//     orders left ready to collect, making dispatch at least once.
//
// When the Kafka transport is enabled its consumer group replaces the pool
// and feeds the same DispatchRunner.
//
// # Retries
//
// DispatchRunner retries retryable errors with exponential backoff
// (github.com/cenkalti/backoff/v4). An order that is already past readiness
// ends the retries silently. Anything else that survives the retries is
// recorded as a dispatch failure.
//
// # Usage
//
//	manager := jobs.NewJobManager(logger, pool, sweep)
//	if err := manager.StartAll(ctx); err != nil {
//		return err
//	}
//	defer manager.StopAll()
package jobs
