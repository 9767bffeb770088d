package payout

import (
	"context"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

// UnsupportedAdapter always fails with a fixed reason
type UnsupportedAdapter struct {
	reason string
}

// NewMaintenanceAdapter is used for rails switched off by configuration and
// for methods that are known but not offered
func NewMaintenanceAdapter() *UnsupportedAdapter {
	return &UnsupportedAdapter{reason: domain.ErrMsgMethodMaintenance}
}

// NewUnknownMethodAdapter is used for methods the engine does not recognise
func NewUnknownMethodAdapter() *UnsupportedAdapter {
	return &UnsupportedAdapter{reason: domain.ErrMsgUnsupportedMethod}
}

func (a *UnsupportedAdapter) Settle(_ context.Context, _ *domain.RedemptionRequest) Outcome {
	return Failed(domain.FailureUnsupportedMethod, a.reason)
}
