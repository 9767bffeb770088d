package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Request errors
	ErrMsgRequestNotFound   = "redemption request not found"
	ErrMsgRequestNotClaimed = "redemption request is not processing"
	ErrMsgInvalidRequestID  = "invalid request id"
	ErrMsgInvalidTransition = "invalid status transition"

	// Inventory errors
	ErrMsgInventoryUnavailable = "no inventory available"
	ErrMsgClaimContention      = "inventory claim lost too many races"
	ErrMsgAmountTooSmall       = "amount too small for conversion"

	// Method errors
	ErrMsgUnsupportedMethod = "unknown payout method"
	ErrMsgMethodMaintenance = "payout method is under maintenance"

	// Gateway errors
	ErrMsgGatewayTimeout     = "gateway timeout"
	ErrMsgGatewayUnavailable = "gateway unavailable"
	ErrMsgGatewayRejected    = "payment rejected by gateway"

	// Security errors
	ErrMsgSecurityRejected = "security check failed"

	// Settlement errors
	ErrMsgInternalProcessing = "internal processing error"
	ErrMsgInfrastructure     = "infrastructure error"

	// Account errors
	ErrMsgAccountNotFound = "account not found"
	ErrMsgNoContact       = "account has no contact address"

	// Crypto errors
	ErrMsgUnknownKey    = "unknown encryption key"
	ErrMsgDecryptFailed = "failed to decrypt secret"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrRequestNotFound   = errors.New(ErrMsgRequestNotFound)
	ErrRequestNotClaimed = errors.New(ErrMsgRequestNotClaimed)
	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)

	ErrInventoryUnavailable = errors.New(ErrMsgInventoryUnavailable)
	ErrClaimContention      = errors.New(ErrMsgClaimContention)
	ErrAmountTooSmall       = errors.New(ErrMsgAmountTooSmall)

	ErrUnsupportedMethod = errors.New(ErrMsgUnsupportedMethod)

	ErrGatewayFailure = errors.New(ErrMsgGatewayUnavailable)
	ErrGatewayTimeout = errors.New(ErrMsgGatewayTimeout)

	ErrSecurityRejected = errors.New(ErrMsgSecurityRejected)
	ErrInfrastructure   = errors.New(ErrMsgInfrastructure)

	ErrAccountNotFound = errors.New(ErrMsgAccountNotFound)
	ErrNoContact       = errors.New(ErrMsgNoContact)

	ErrUnknownKey    = errors.New(ErrMsgUnknownKey)
	ErrDecryptFailed = errors.New(ErrMsgDecryptFailed)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// FailureKind classifies why a settlement did not complete
type FailureKind string

const (
	FailureNone                 FailureKind = ""
	FailureSecurityRejected     FailureKind = "security_rejected"
	FailureInventoryUnavailable FailureKind = "inventory_unavailable"
	FailureUnsupportedMethod    FailureKind = "unsupported_method"
	FailureGateway              FailureKind = "gateway_failure"
	FailureInfrastructure       FailureKind = "infrastructure_fault"
)

// ClassifyError maps a wrapped domain error to its FailureKind
func ClassifyError(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrSecurityRejected):
		return FailureSecurityRejected
	case errors.Is(err, ErrInventoryUnavailable), errors.Is(err, ErrAmountTooSmall):
		return FailureInventoryUnavailable
	case errors.Is(err, ErrUnsupportedMethod):
		return FailureUnsupportedMethod
	case errors.Is(err, ErrGatewayFailure), errors.Is(err, ErrGatewayTimeout):
		return FailureGateway
	default:
		return FailureInfrastructure
	}
}
