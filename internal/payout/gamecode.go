package payout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// GameCodeAdapter converts the amount into game currency and hands out one use
// of the smallest code that covers it
type GameCodeAdapter struct {
	inventory repository.Inventory
	rate      decimal.Decimal
}

// NewGameCodeAdapter creates a GameCodeAdapter. A non-positive rate falls back
// to DefaultGameCurrencyRate.
func NewGameCodeAdapter(inventory repository.Inventory, rate decimal.Decimal) *GameCodeAdapter {
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(DefaultGameCurrencyRate)
	}
	return &GameCodeAdapter{inventory: inventory, rate: rate}
}

// Units converts an amount to whole game-currency units, rounding down
func (a *GameCodeAdapter) Units(amount decimal.Decimal) int64 {
	return amount.Mul(a.rate).Floor().IntPart()
}

func (a *GameCodeAdapter) Settle(ctx context.Context, req *domain.RedemptionRequest) Outcome {
	log := logger.FromContext(ctx)
	method := string(domain.MethodGameCode)

	units := a.Units(req.Amount)
	if units < 1 {
		return Failed(domain.FailureInventoryUnavailable, domain.ErrMsgAmountTooSmall)
	}

	code, err := a.inventory.ClaimGameCode(ctx, domain.GameCodeClaim{
		Units:     units,
		AccountID: req.AccountID,
		RequestID: req.RequestID,
	})
	if err != nil {
		return inventoryFailure(ctx, method, err)
	}

	metrics.InventoryClaims.WithLabelValues(method, metrics.ResultClaimed).Inc()
	log.Info(LogMsgPayoutIssued, "method", method, "item_id", code.ID, "units", units)

	id := code.ID
	return Succeeded(MsgGameCodeIssued, &domain.PayoutDetails{
		Method:    domain.MethodGameCode,
		ItemID:    &id,
		Secret:    code.Secret,
		Country:   code.Region,
		Units:     units,
		ExpiresAt: code.ExpiresAt,
	})
}
