package settlement

import "time"

// Defaults applied when Config leaves a field zero
const (
	DefaultPollInterval           = 30 * time.Second
	DefaultConcurrency            = 4
	DefaultQueueSize              = 256
	DefaultScanBatchSize          = 500
	DefaultStaleAfter             = 10 * time.Minute
	DefaultTerminalCommitAttempts = 3
	DefaultTerminalCommitBackoff  = 200 * time.Millisecond
)

// Result is what AttemptSettlement did with a request
type Result string

const (
	// ResultCompleted means this call moved the request to completed
	ResultCompleted Result = "completed"

	// ResultFailed means this call moved the request to failed
	ResultFailed Result = "failed"

	// ResultSkipped means the request was not pending, so another attempt owns it
	ResultSkipped Result = "skipped"

	// ResultUncommitted means a decision was reached but the terminal status
	// could not be written; the request stays processing until an operator acts
	ResultUncommitted Result = "uncommitted"
)

// Failure reasons
const (
	ReasonFmtSecurityRejected = "security check failed: %s"
	ReasonRequestUnreadable   = "internal processing error: request could not be loaded"
)

// Log messages
const (
	LogMsgEngineStarted       = "Settlement engine started"
	LogMsgEngineStopped       = "Settlement engine stopped"
	LogMsgClaimFailed         = "Failed to claim request, leaving it pending"
	LogMsgClaimSkipped        = "Request not pending, skipping"
	LogMsgSettlementPanic     = "Settlement panicked after claim"
	LogMsgLoadFailed          = "Failed to load claimed request"
	LogMsgSecurityRejected    = "Request rejected by security gate"
	LogMsgPayoutFailed        = "Payout failed"
	LogMsgSettled             = "Request settled"
	LogMsgCommitRetry         = "Terminal commit failed, retrying"
	LogMsgCommitExhausted     = "Terminal commit failed, request left processing"
	LogMsgCommitLost          = "Terminal commit matched no processing row"
	LogMsgPublishFailed       = "Failed to publish settlement event"
	LogMsgScanFailed          = "Pending scan failed"
	LogMsgScanEnqueued        = "Pending scan enqueued requests"
	LogMsgQueueFull           = "Settlement queue full, request left for next scan"
	LogMsgScanQueueFull       = "Settlement queue full, stopping scan early"
	LogMsgStaleProcessing     = "Request stuck in processing"
	LogMsgStaleCheckFailed    = "Stale processing check failed"
	LogMsgStartupSweepSkipped = "Startup sweep could not be queued"
)
