package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants used for event bus subscriptions and metrics.
// Event types follow the pattern: <entity>.<action>
const (
	// EventTypeRedemptionCompleted is published after a request commits as completed
	EventTypeRedemptionCompleted = "redemption.completed"

	// EventTypeRedemptionFailed is published after a request commits as failed
	EventTypeRedemptionFailed = "redemption.failed"
)

// RedemptionSettledPayload describes a terminal transition. Details is only
// populated on the in-process completed event and must be dropped before the
// payload leaves the process.
type RedemptionSettledPayload struct {
	RequestID   string           `json:"request_id"`
	AccountID   uuid.UUID        `json:"account_id"`
	Method      PayoutMethod     `json:"method"`
	Amount      decimal.Decimal  `json:"amount"`
	Status      RedemptionStatus `json:"status"`
	Reason      string           `json:"reason,omitempty"`
	FailureKind FailureKind      `json:"failure_kind,omitempty"`
	SettledAt   time.Time        `json:"settled_at"`
	Details     *PayoutDetails   `json:"-"`
}

// Redacted returns a copy safe to serialize outside the process
func (p RedemptionSettledPayload) Redacted() RedemptionSettledPayload {
	p.Details = nil
	return p
}
