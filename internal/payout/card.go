package payout

import (
	"context"
	"errors"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// CardAdapter issues a prepaid card whose face value equals the request amount
type CardAdapter struct {
	inventory repository.Inventory
}

// NewCardAdapter creates a CardAdapter
func NewCardAdapter(inventory repository.Inventory) *CardAdapter {
	return &CardAdapter{inventory: inventory}
}

func (a *CardAdapter) Settle(ctx context.Context, req *domain.RedemptionRequest) Outcome {
	log := logger.FromContext(ctx)
	method := string(domain.MethodCard)

	card, err := a.inventory.ClaimCard(ctx, domain.CardClaim{
		Value:     req.Amount,
		AccountID: req.AccountID,
		RequestID: req.RequestID,
	})
	if err != nil {
		return inventoryFailure(ctx, method, err)
	}

	metrics.InventoryClaims.WithLabelValues(method, metrics.ResultClaimed).Inc()
	log.Info(LogMsgPayoutIssued, "method", method, "item_id", card.ID)

	id := card.ID
	return Succeeded(MsgCardIssued, &domain.PayoutDetails{
		Method:    domain.MethodCard,
		ItemID:    &id,
		Secret:    card.Secret,
		Last4:     card.Last4,
		Country:   card.Country,
		ExpiresAt: card.ExpiresAt,
	})
}

// inventoryFailure maps a claim error to an Outcome. An empty shelf is a
// business result; anything else is an infrastructure fault.
func inventoryFailure(ctx context.Context, method string, err error) Outcome {
	log := logger.FromContext(ctx)
	switch {
	case errors.Is(err, domain.ErrInventoryUnavailable):
		log.Warn(LogMsgInventoryEmpty, "method", method)
		metrics.InventoryClaims.WithLabelValues(method, metrics.ResultUnavailable).Inc()
		return Failed(domain.FailureInventoryUnavailable, domain.ErrMsgInventoryUnavailable)
	case errors.Is(err, domain.ErrClaimContention):
		log.Error(LogMsgInventoryClaimFailed, "method", method, "error", err)
		metrics.InventoryClaims.WithLabelValues(method, metrics.ResultError).Inc()
		return Failed(domain.FailureInfrastructure, domain.ErrMsgClaimContention)
	default:
		log.Error(LogMsgInventoryClaimFailed, "method", method, "error", err)
		metrics.InventoryClaims.WithLabelValues(method, metrics.ResultError).Inc()
		return Failed(domain.FailureInfrastructure, MsgInventoryError)
	}
}
