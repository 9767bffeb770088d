package worker

import "errors"

// ErrPoolStopped is returned by Enqueue once the pool is shutting down
var ErrPoolStopped = errors.New("worker pool stopped")

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	// LogMsgWorkerJobFailed is logged when a worker fails to process a job
	LogMsgWorkerJobFailed = "Worker job failed"

	// LogMsgWorkerJobPanicked is logged when a job panics
	LogMsgWorkerJobPanicked = "Worker job panicked"

	// LogMsgShutdownCancelledJobs is logged when shutdown runs out of time
	LogMsgShutdownCancelledJobs = "Worker pool shutdown deadline reached, cancelling running jobs"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
