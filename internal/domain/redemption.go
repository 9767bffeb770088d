package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RedemptionStatus is the lifecycle state of a redemption request.
//
// pending -> processing -> completed | failed. Terminal states never change.
type RedemptionStatus string

const (
	StatusPending    RedemptionStatus = "pending"
	StatusProcessing RedemptionStatus = "processing"
	StatusCompleted  RedemptionStatus = "completed"
	StatusFailed     RedemptionStatus = "failed"
)

// IsTerminal reports whether s is completed or failed
func (s RedemptionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s RedemptionStatus) CanTransitionTo(next RedemptionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Valid reports whether s is one of the known statuses
func (s RedemptionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// PayoutMethod identifies the rail used to settle a request
type PayoutMethod string

const (
	MethodCard        PayoutMethod = "card"
	MethodGameCode    PayoutMethod = "game_code"
	MethodCashRail    PayoutMethod = "cash_rail"
	MethodUnsupported PayoutMethod = "unsupported"
)

// Names the intake form has historically written into the method column.
const (
	legacyMethodVisa     = "visa"
	legacyMethodFreeFire = "freefire"
	legacyMethodFawry    = "fawry"
	legacyMethodPayPal   = "paypal"
)

// ParsePayoutMethod maps a stored method name to a PayoutMethod. Unknown
// names are returned unchanged so the adapter registry can report them.
func ParsePayoutMethod(raw string) PayoutMethod {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(MethodCard), legacyMethodVisa:
		return MethodCard
	case string(MethodGameCode), legacyMethodFreeFire:
		return MethodGameCode
	case string(MethodCashRail), legacyMethodFawry:
		return MethodCashRail
	case string(MethodUnsupported), legacyMethodPayPal:
		return MethodUnsupported
	default:
		return PayoutMethod(raw)
	}
}

// Known reports whether m is one of the four methods the engine understands
func (m PayoutMethod) Known() bool {
	switch m {
	case MethodCard, MethodGameCode, MethodCashRail, MethodUnsupported:
		return true
	}
	return false
}

// RequestDetails holds method-specific data captured at intake
type RequestDetails struct {
	Phone       string `json:"phone,omitempty"`
	AccountName string `json:"account_name,omitempty"`
	Region      string `json:"region,omitempty"`
}

// RedemptionRequest is a user's request to convert balance into a payout.
// The amount was debited by intake before the row was created.
type RedemptionRequest struct {
	ID           uuid.UUID        `json:"id"`
	RequestID    string           `json:"request_id"`
	AccountID    uuid.UUID        `json:"account_id"`
	Method       PayoutMethod     `json:"method"`
	Amount       decimal.Decimal  `json:"amount"`
	Details      RequestDetails   `json:"details"`
	Status       RedemptionStatus `json:"status"`
	StatusReason string           `json:"status_reason,omitempty"`
	ClaimedBy    string           `json:"claimed_by,omitempty"`
	ClaimedAt    *time.Time       `json:"claimed_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

// RedemptionFilter narrows an account history listing
type RedemptionFilter struct {
	AccountID uuid.UUID
	Status    RedemptionStatus
	Limit     uint64
}
