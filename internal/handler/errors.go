package handler

// User-facing error messages. These never expose internal error details.
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnknownError         = "Unknown error"
	ErrMsgInvalidRequestError  = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError     = "Server is temporarily unavailable. Please try again later."
	ErrMsgRequestNotFoundError = "Redemption request not found"
	ErrMsgAccountNotFoundError = "Account not found"

	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidAccountID      = "Invalid account_id"
	ErrMsgInvalidStatus         = "Invalid status filter"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidRequestID      = "Invalid request id"
)

// Success messages
const (
	MsgRedemptionQueued   = "Redemption queued for settlement"
	MsgRedemptionDeferred = "Settlement queue is busy, the request will be picked up by the next scan"
	MsgScanQueued         = "Scan queued"
	MsgScanBusy           = "A scan could not be queued, the scheduled scan will run shortly"
)

// Log messages
const (
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgWebhookReceived = "Redemption webhook received"
	LogMsgScanTriggered   = "Manual scan triggered"
)

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// WebhookTypeWithdrawalRequest is the only webhook type intake sends
const WebhookTypeWithdrawalRequest = "withdrawal_request"
