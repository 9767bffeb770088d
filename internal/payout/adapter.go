// Package payout settles a redemption request on one payment rail.
package payout

import (
	"context"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

// Outcome is the result of settling a request on a rail. A failed Outcome is
// a normal business result; adapters never return errors.
type Outcome struct {
	Success bool
	Message string
	Details *domain.PayoutDetails
	Kind    domain.FailureKind
}

// Succeeded builds a successful Outcome
func Succeeded(message string, details *domain.PayoutDetails) Outcome {
	return Outcome{Success: true, Message: message, Details: details}
}

// Failed builds a failed Outcome
func Failed(kind domain.FailureKind, message string) Outcome {
	return Outcome{Success: false, Message: message, Kind: kind}
}

// Adapter settles requests for one payout method
type Adapter interface {
	Settle(ctx context.Context, req *domain.RedemptionRequest) Outcome
}

// AdapterFunc lets a plain function act as an Adapter
type AdapterFunc func(ctx context.Context, req *domain.RedemptionRequest) Outcome

// Settle calls f
func (f AdapterFunc) Settle(ctx context.Context, req *domain.RedemptionRequest) Outcome {
	return f(ctx, req)
}

// Registry resolves a payout method to its adapter. The set of methods is
// closed; anything unregistered settles through the unsupported adapter.
type Registry struct {
	adapters map[domain.PayoutMethod]Adapter
}

// RegistryConfig selects which rails are live
type RegistryConfig struct {
	CardEnabled     bool
	GameCodeEnabled bool
	CashRailEnabled bool
}

// NewRegistry wires the adapters. Disabled rails resolve to a maintenance
// adapter rather than disappearing, so requests for them fail with a clear
// reason.
func NewRegistry(cfg RegistryConfig, card, gameCode, cashRail Adapter) *Registry {
	maintenance := NewMaintenanceAdapter()
	pick := func(enabled bool, a Adapter) Adapter {
		if enabled && a != nil {
			return a
		}
		return maintenance
	}
	return &Registry{adapters: map[domain.PayoutMethod]Adapter{
		domain.MethodCard:        pick(cfg.CardEnabled, card),
		domain.MethodGameCode:    pick(cfg.GameCodeEnabled, gameCode),
		domain.MethodCashRail:    pick(cfg.CashRailEnabled, cashRail),
		domain.MethodUnsupported: maintenance,
	}}
}

// Resolve returns the adapter for method
func (r *Registry) Resolve(method domain.PayoutMethod) Adapter {
	if a, ok := r.adapters[method]; ok {
		return a
	}
	return NewUnknownMethodAdapter()
}

// Settle resolves and runs the adapter for req.Method
func (r *Registry) Settle(ctx context.Context, req *domain.RedemptionRequest) Outcome {
	return r.Resolve(req.Method).Settle(ctx, req)
}
