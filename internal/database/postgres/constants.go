package postgres

// MaxClaimAttempts bounds how many times an inventory claim retries after
// losing a race to another claimant
const MaxClaimAttempts = 5

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// redemptionColumns matches generated.WithdrawalRequest field order so the
// squirrel-built listing can scan with pgx.RowToStructByPos
const redemptionColumns = "id, request_id, user_id, method, amount, details, status, " +
	"status_reason, claimed_by, claimed_at, created_at, completed_at"

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgFailedToGetRedemption     = "failed to get redemption request"
	ErrMsgFailedToListPending       = "failed to list pending requests"
	ErrMsgFailedToClaimRedemption   = "failed to claim redemption request"
	ErrMsgFailedToCommitTerminal    = "failed to commit terminal status"
	ErrMsgFailedToListRedemptions   = "failed to list redemption requests"
	ErrMsgFailedToInsertRedemption  = "failed to insert redemption request"
	ErrMsgFailedToClaimCard         = "failed to claim prepaid card"
	ErrMsgFailedToClaimGameCode     = "failed to claim game code"
	ErrMsgFailedToInsertInventory   = "failed to insert inventory item"
	ErrMsgFailedToReadSessions      = "failed to read sessions"
	ErrMsgFailedToSumWithdrawals    = "failed to sum withdrawals"
	ErrMsgFailedToReadRiskFlags     = "failed to read risk flags"
	ErrMsgFailedToGetContact        = "failed to get account contact"
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)
