package notify

import "time"

// Contact cache defaults
const (
	DefaultContactCacheSize = 1024
	DefaultContactCacheTTL  = 10 * time.Minute
)

// Email API
const (
	ResendEmailsPath      = "/emails"
	DefaultSendTimeout    = 10 * time.Second
	MaxSenderResponseBody = 64 << 10
)

// Subjects per payout method
const (
	SubjectCard     = "Your prepaid card details"
	SubjectGameCode = "Your game currency code"
	SubjectCashRail = "Your cash withdrawal is on its way"
)

// Log messages
const (
	LogMsgNotificationSent    = "Completion notification sent"
	LogMsgNotificationFailed  = "Completion notification failed"
	LogMsgNotificationSkipped = "Completion notification skipped"
	LogMsgNoDetails           = "Completed event carries no payout details"
	LogMsgPayloadInvalid      = "Invalid payload for completed event"
	LogMsgDispatcherStopped   = "Notification dispatcher stopped, event dead-lettered"
	LogMsgShutdownTimeout     = "Notification dispatcher shutdown timed out"
	LogMsgDeadLetterFailed    = "Failed to dead-letter notification"
	LogMsgEmailLogged         = "Email (log sender)"
	ErrMsgNoTemplate          = "no email template for method"
	ErrMsgDispatcherStopped   = "notification dispatcher stopped"
	ErrFmtSenderHTTPStatus    = "email API returned HTTP %d: %s"
	ErrFmtContactLookup       = "contact lookup: %w"
	ErrFmtOpenSecret          = "open secret: %w"
	ErrFmtDecodeCardPayload   = "decode card payload: %w"
	ErrFmtRenderTemplate      = "render %s email: %w"
	ErrFmtSendEmail           = "send email: %w"
	ErrFmtMarshalEmailRequest = "marshal email request: %w"
	ErrFmtCreateEmailRequest  = "create email request: %w"
	ErrFmtEmailRequestFailed  = "email request: %w"
)
