package payout

import "time"

// Cash rail gateway
const (
	// GatewayProcessPath is appended to the configured gateway base URL
	GatewayProcessPath = "/api/payments/process"

	// GatewayPaymentMethodCash is the only payment method the engine requests
	GatewayPaymentMethodCash = "CASH"

	// GatewayStatusSuccess marks an accepted payment
	GatewayStatusSuccess = "SUCCESS"

	// DefaultGatewayTimeout bounds a single gateway call when none is configured
	DefaultGatewayTimeout = 15 * time.Second

	// MaxGatewayResponseBytes caps how much of a gateway response is read
	MaxGatewayResponseBytes = 1 << 20
)

// DefaultGameCurrencyRate is how many in-game units one unit of account currency buys
const DefaultGameCurrencyRate = 110

// Outcome messages
const (
	MsgCardIssued        = "prepaid card issued"
	MsgGameCodeIssued    = "game code issued"
	MsgCashRailAccepted  = "payment accepted by gateway"
	MsgInventoryError    = "inventory store error"
	MsgMissingPhone      = "no payout phone number on request"
	MsgGatewayNoRef      = "gateway response missing reference number"
	MsgGatewayBadReply   = "gateway returned an unreadable response"
	MsgGatewayHTTPStatus = "gateway returned HTTP %d"
)

// Log messages
const (
	LogMsgInventoryClaimFailed = "Inventory claim failed"
	LogMsgInventoryEmpty       = "No matching inventory"
	LogMsgGatewayCallFailed    = "Gateway call failed"
	LogMsgGatewayDeclined      = "Gateway declined payment"
	LogMsgPayoutIssued         = "Payout issued"
)
