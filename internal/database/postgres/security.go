package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/database/generated"
	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// SecurityRepository reads the account signals used by the security gate
type SecurityRepository struct {
	q *generated.Queries
}

// NewSecurityRepository creates a new SecurityRepository
func NewSecurityRepository(db *pgxpool.Pool) *SecurityRepository {
	return &SecurityRepository{q: generated.New(db)}
}

var _ repository.Security = (*SecurityRepository)(nil)

func (r *SecurityRepository) RecentSessions(ctx context.Context, accountID uuid.UUID, n int) ([]repository.SessionInfo, error) {
	rows, err := r.q.RecentSessions(ctx, generated.RecentSessionsParams{
		UserID: accountID,
		Limit:  int32(n),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadSessions, err)
	}

	sessions := make([]repository.SessionInfo, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, repository.SessionInfo{
			IPAddress: row.IpAddress,
			DeviceID:  row.DeviceID,
			CreatedAt: row.CreatedAt.Time,
		})
	}
	return sessions, nil
}

func (r *SecurityRepository) WithdrawnSince(ctx context.Context, accountID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	total, err := r.q.WithdrawnSince(ctx, generated.WithdrawnSinceParams{
		UserID:    accountID,
		CreatedAt: pgtype.Timestamptz{Time: since, Valid: true},
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", ErrMsgFailedToSumWithdrawals, err)
	}
	return total, nil
}

func (r *SecurityRepository) ActiveRiskFlags(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	flags, err := r.q.ActiveRiskFlags(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadRiskFlags, err)
	}
	return flags, nil
}

// AccountRepository resolves account contact details
type AccountRepository struct {
	q *generated.Queries
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{q: generated.New(db)}
}

var _ repository.Account = (*AccountRepository)(nil)

func (r *AccountRepository) GetContactEmail(ctx context.Context, accountID uuid.UUID) (string, error) {
	email, err := r.q.GetUserEmail(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrAccountNotFound
		}
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToGetContact, err)
	}
	if !email.Valid || email.String == "" {
		return "", domain.ErrNoContact
	}
	return email.String, nil
}
