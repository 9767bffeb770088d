package event

import "time"

// Event schema versioning
const (
	// EventSchemaVersion is the current event schema version
	EventSchemaVersion = "1.0"
)

// MetadataKeyInstance names the engine instance that committed the transition
const MetadataKeyInstance = "instance_id"

// Kafka sink configuration
const (
	// SinkQueueBufferSize is the buffer size for the outbound Kafka queue
	SinkQueueBufferSize = 1000

	// SinkBaseDelay is the first retry delay for a failed Kafka write
	SinkBaseDelay = 200 * time.Millisecond

	// SinkMaxDelay caps the exponential backoff
	SinkMaxDelay = 10 * time.Second

	// SinkMaxAttempts is the default number of write attempts per message
	SinkMaxAttempts = 5

	// SinkWriteTimeout bounds a single WriteMessages call
	SinkWriteTimeout = 10 * time.Second
)

// Dead letter file configuration
const (
	// DeadLetterFilePermissions is the file permission mode for dead-letter files
	DeadLetterFilePermissions = 0600
)

// Log message constants
const (
	LogMsgSinkQueueFull        = "Kafka sink queue full, event dropped to dead-letter"
	LogMsgSinkRetry            = "Kafka write failed, retrying"
	LogMsgSinkRetrySucceeded   = "Kafka write succeeded after retry"
	LogMsgSinkRetryExhausted   = "Kafka write retries exhausted, writing to dead-letter"
	LogMsgSinkDroppedShutdown  = "Kafka sink dropped event during shutdown"
	LogMsgSinkShutdownTimeout  = "Kafka sink shutdown timed out"
	LogMsgDeadLetterWriteFail  = "Failed to write to dead letter"
	LogMsgEventDeadLettered    = "event_dead_lettered"
	LogMsgSinkMarshalFailed    = "Failed to marshal event for Kafka"
	LogMsgSinkWriterCloseError = "Failed to close Kafka writer"

	// Log message for handler errors
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay calculates the exponential backoff delay for retry attempts.
// Formula: baseDelay * 2^(attempt-1), capped at maxDelay when maxDelay > 0
func CalculateRetryDelay(baseDelay time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := baseDelay * time.Duration(1<<(attempt-1))
	if maxDelay > 0 && (delay > maxDelay || delay <= 0) {
		return maxDelay
	}
	return delay
}
