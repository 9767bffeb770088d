package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for session log files
	LogFilePermission = 0640
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept alongside the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingEngine      = "Starting redemption settlement engine"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStorageMemory     = "Using in-memory storage backend; state is lost on restart"
	LogMsgStoragePostgres   = "Using PostgreSQL storage backend"
	ErrMsgFailedConnectDB   = "failed to connect to database"
	ErrMsgFailedMigrate     = "failed to apply migrations"
	ErrMsgFailedLoadKeyring = "failed to load code keyring"
)

// =============================================================================
// Event System
// =============================================================================

const (
	LogMsgEventSystemInitialized    = "Event system initialized"
	LogMsgKafkaSinkEnabled          = "Kafka event export enabled"
	LogMsgKafkaSinkDisabled         = "KAFKA_BROKERS not set, event export disabled"
	ErrMsgFailedCreateDeadLetterDir = "failed to create dead-letter directory"
	ErrMsgFailedOpenDeadLetter      = "failed to open dead-letter file"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgNotifierRegistered         = "Payout notifier registered"
	LogMsgEmailSenderLogOnly         = "RESEND_API_KEY not set, emails are logged instead of sent"
)

// =============================================================================
// Payouts
// =============================================================================

const (
	// GatewayClientTimeout bounds the cash rail HTTP client when the
	// configured timeout is unset
	GatewayClientTimeout = 15 * time.Second

	LogMsgPayoutRegistry = "Payout rails configured"
)

// =============================================================================
// Inventory Seeding
// =============================================================================

const (
	LogMsgSeedingInventory     = "Seeding inventory from file..."
	LogMsgInventorySeeded      = "Inventory seeded successfully"
	LogMsgSeedAccountsSkipped  = "Seed accounts ignored; the storage backend owns account records"
	ErrMsgFailedLoadSeed       = "failed to load inventory seed"
	ErrMsgInvalidSeed          = "invalid inventory seed"
	ErrMsgFailedSealSecret     = "failed to seal secret"
	ErrFmtFailedSeedCard       = "failed to seed card %d: %w"
	ErrFmtFailedSeedGameCode   = "failed to seed game code %d: %w"
	ErrFmtSeedCardLast4        = "card %d: number must have at least 4 digits"
	ErrFmtSeedValidationFailed = "%s: %w"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer      = "Shutting down server..."
	LogMsgShuttingDownEngine      = "Shutting down settlement engine..."
	LogMsgShuttingDownNotifier    = "Waiting for in-flight notifications..."
	LogMsgShuttingDownEventExport = "Flushing event export..."
	LogMsgServerStopped           = "Server stopped"
	LogMsgServerForcedShutdown    = "Server forced to shutdown"
	LogMsgComponentShutdownFailed = " shutdown failed"

	// Component names for shutdown logging
	ComponentEngine     = "settlement engine"
	ComponentNotifier   = "notifier"
	ComponentEventSink  = "kafka sink"
	ComponentDeadLetter = "dead-letter writer"
)
