package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

// Inventory hands out scarce payout items. Claims are compare-and-commit: an
// item is never assigned to two requests and a request never receives two items.
type Inventory interface {
	// ClaimCard assigns an available card whose value equals claim.Value.
	// Returns domain.ErrInventoryUnavailable when none match.
	ClaimCard(ctx context.Context, claim domain.CardClaim) (*domain.PrepaidCard, error)

	// ClaimGameCode takes one use of the smallest available code covering
	// claim.Units. Returns domain.ErrInventoryUnavailable when none match.
	ClaimGameCode(ctx context.Context, claim domain.GameCodeClaim) (*domain.GameCode, error)

	// AddCard and AddGameCode stock inventory; used by tooling and tests
	AddCard(ctx context.Context, card *domain.PrepaidCard) error
	AddGameCode(ctx context.Context, code *domain.GameCode) error

	// CountAvailableCards returns the number of unclaimed cards of the given value
	CountAvailableCards(ctx context.Context, value decimal.Decimal) (int, error)
}
