package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/database/generated"
	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// InventoryRepository implements repository.Inventory for PostgreSQL.
//
// Each claim is a single conditional UPDATE whose candidate is picked with
// FOR UPDATE SKIP LOCKED and re-checked against status; an UPDATE that
// matches nothing while stock still exists is a lost race and is retried.
type InventoryRepository struct {
	db *pgxpool.Pool
	q  *generated.Queries
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{
		db: db,
		q:  generated.New(db),
	}
}

var _ repository.Inventory = (*InventoryRepository)(nil)

func (r *InventoryRepository) ClaimCard(ctx context.Context, claim domain.CardClaim) (*domain.PrepaidCard, error) {
	log := logger.FromContext(ctx)
	requestID := pgtype.Text{String: claim.RequestID, Valid: true}
	params := generated.ClaimCardParams{
		Value:             claim.Value,
		AssignedTo:        pgtype.UUID{Bytes: claim.AccountID, Valid: true},
		AssignedRequestID: requestID,
	}

	for attempt := 1; attempt <= MaxClaimAttempts; attempt++ {
		row, err := r.q.ClaimCard(ctx, params)
		switch {
		case err == nil:
			return toDomainCard(row), nil
		case isUniqueViolation(err):
			// this request already holds a card; hand the same one back
			existing, getErr := r.q.GetCardByRequestID(ctx, requestID)
			if getErr != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimCard, getErr)
			}
			return toDomainCard(existing), nil
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimCard, err)
		}

		available, err := r.q.CardAvailable(ctx, claim.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimCard, err)
		}
		if !available {
			return nil, domain.ErrInventoryUnavailable
		}
		log.Debug("Card claim lost race, retrying", "attempt", attempt, "value", claim.Value.String())
	}

	return nil, domain.ErrClaimContention
}

// ClaimGameCode takes one use of a code and records it in game_code_claims in
// the same transaction, so a rolled back ledger insert also undoes the use.
func (r *InventoryRepository) ClaimGameCode(ctx context.Context, claim domain.GameCodeClaim) (*domain.GameCode, error) {
	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= MaxClaimAttempts; attempt++ {
		code, err := r.claimGameCodeOnce(ctx, claim)
		switch {
		case err == nil:
			return code, nil
		case isUniqueViolation(err):
			existing, getErr := r.q.GetGameCodeByRequestID(ctx, claim.RequestID)
			if getErr != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimGameCode, getErr)
			}
			return toDomainGameCode(existing), nil
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimGameCode, err)
		}

		available, err := r.q.GameCodeAvailable(ctx, claim.Units)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToClaimGameCode, err)
		}
		if !available {
			return nil, domain.ErrInventoryUnavailable
		}
		log.Debug("Game code claim lost race, retrying", "attempt", attempt, "units", claim.Units)
	}

	return nil, domain.ErrClaimContention
}

func (r *InventoryRepository) claimGameCodeOnce(ctx context.Context, claim domain.GameCodeClaim) (*domain.GameCode, error) {
	tx, err := beginTx(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer safeRollback(ctx, tx)

	q := r.q.WithTx(tx)
	row, err := q.ClaimGameCodeUse(ctx, generated.ClaimGameCodeUseParams{
		UnitValue:  claim.Units,
		AssignedTo: pgtype.UUID{Bytes: claim.AccountID, Valid: true},
	})
	if err != nil {
		return nil, err
	}

	err = q.InsertGameCodeClaim(ctx, generated.InsertGameCodeClaimParams{
		CodeID:    row.ID,
		RequestID: claim.RequestID,
		UserID:    claim.AccountID,
		Units:     claim.Units,
		UseNumber: row.UsesCount,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return toDomainGameCode(row), nil
}

func (r *InventoryRepository) AddCard(ctx context.Context, card *domain.PrepaidCard) error {
	row, err := r.q.InsertCard(ctx, generated.InsertCardParams{
		Value:     card.Value,
		Country:   card.Country,
		Last4:     card.Last4,
		SecretEnc: card.Secret.Ciphertext,
		KeyID:     card.Secret.KeyID,
		ExpiresAt: timeToPgtimetz(card.ExpiresAt),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertInventory, err)
	}
	card.ID = row.ID
	card.Status = domain.InventoryStatus(row.Status)
	card.CreatedAt = row.CreatedAt.Time
	return nil
}

func (r *InventoryRepository) AddGameCode(ctx context.Context, code *domain.GameCode) error {
	maxUses := code.MaxUses
	if maxUses < 1 {
		maxUses = 1
	}
	row, err := r.q.InsertGameCode(ctx, generated.InsertGameCodeParams{
		UnitValue: code.UnitValue,
		Region:    code.Region,
		CodeEnc:   code.Secret.Ciphertext,
		KeyID:     code.Secret.KeyID,
		ExpiresAt: timeToPgtimetz(code.ExpiresAt),
		MaxUses:   int32(maxUses),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertInventory, err)
	}
	code.ID = row.ID
	code.MaxUses = maxUses
	code.UsesCount = int(row.UsesCount)
	code.Status = domain.InventoryStatus(row.Status)
	code.CreatedAt = row.CreatedAt.Time
	return nil
}

func (r *InventoryRepository) CountAvailableCards(ctx context.Context, value decimal.Decimal) (int, error) {
	n, err := r.q.CountAvailableCards(ctx, value)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return int(n), nil
}

func toDomainCard(row generated.PrepaidCard) *domain.PrepaidCard {
	return &domain.PrepaidCard{
		ID:                row.ID,
		Value:             row.Value,
		Country:           row.Country,
		Last4:             row.Last4,
		Secret:            domain.SealedSecret{KeyID: row.KeyID, Ciphertext: row.SecretEnc},
		ExpiresAt:         pgtimetzToPtr(row.ExpiresAt),
		Status:            domain.InventoryStatus(row.Status),
		AssignedTo:        pgUUIDToPtr(row.AssignedTo),
		AssignedRequestID: row.AssignedRequestID.String,
		ClaimedAt:         pgtimetzToPtr(row.ClaimedAt),
		CreatedAt:         row.CreatedAt.Time,
	}
}

func toDomainGameCode(row generated.FreefireCode) *domain.GameCode {
	return &domain.GameCode{
		ID:         row.ID,
		UnitValue:  row.UnitValue,
		Region:     row.Region,
		Secret:     domain.SealedSecret{KeyID: row.KeyID, Ciphertext: row.CodeEnc},
		ExpiresAt:  pgtimetzToPtr(row.ExpiresAt),
		UsesCount:  int(row.UsesCount),
		MaxUses:    int(row.MaxUses),
		Status:     domain.InventoryStatus(row.Status),
		AssignedTo: pgUUIDToPtr(row.AssignedTo),
		ClaimedAt:  pgtimetzToPtr(row.ClaimedAt),
		CreatedAt:  row.CreatedAt.Time,
	}
}
