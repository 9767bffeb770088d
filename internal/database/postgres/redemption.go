package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RedeemBot_Go/internal/database/generated"
	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// RedemptionRepository implements repository.Redemption for PostgreSQL
type RedemptionRepository struct {
	db *pgxpool.Pool
	q  *generated.Queries
}

// NewRedemptionRepository creates a new RedemptionRepository
func NewRedemptionRepository(db *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{
		db: db,
		q:  generated.New(db),
	}
}

var _ repository.Redemption = (*RedemptionRepository)(nil)

// Create inserts a new request. Status defaults to pending.
func (r *RedemptionRepository) Create(ctx context.Context, req *domain.RedemptionRequest) error {
	details, err := json.Marshal(req.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}
	if req.Status == "" {
		req.Status = domain.StatusPending
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	params := generated.CreateRedemptionParams{
		RequestID: req.RequestID,
		UserID:    req.AccountID,
		Method:    string(req.Method),
		Amount:    req.Amount,
		Details:   details,
		Status:    string(req.Status),
		CreatedAt: pgtype.Timestamptz{Time: createdAt, Valid: true},
	}

	row, err := r.q.CreateRedemption(ctx, params)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertRedemption, err)
	}
	req.ID = row.ID
	req.CreatedAt = row.CreatedAt.Time
	return nil
}

// GetByRequestID returns domain.ErrRequestNotFound when no row matches
func (r *RedemptionRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.RedemptionRequest, error) {
	row, err := r.q.GetRedemptionByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRedemption, err)
	}
	return toDomainRedemption(row)
}

func (r *RedemptionRepository) ListPendingIDs(ctx context.Context, limit int) ([]string, error) {
	ids, err := r.q.ListPendingRequestIDs(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPending, err)
	}
	return ids, nil
}

func (r *RedemptionRepository) ClaimForProcessing(ctx context.Context, requestID, instanceID string) (bool, error) {
	n, err := r.q.ClaimRedemption(ctx, generated.ClaimRedemptionParams{
		RequestID: requestID,
		ClaimedBy: instanceID,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToClaimRedemption, err)
	}
	return n == 1, nil
}

func (r *RedemptionRepository) CompleteRequest(ctx context.Context, requestID, reason string) (bool, error) {
	n, err := r.q.CompleteRedemption(ctx, generated.CompleteRedemptionParams{
		RequestID:    requestID,
		StatusReason: reason,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTerminal, err)
	}
	return n == 1, nil
}

func (r *RedemptionRepository) FailRequest(ctx context.Context, requestID, reason string) (bool, error) {
	n, err := r.q.FailRedemption(ctx, generated.FailRedemptionParams{
		RequestID:    requestID,
		StatusReason: reason,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTerminal, err)
	}
	return n == 1, nil
}

func (r *RedemptionRepository) ListStaleProcessing(ctx context.Context, cutoff time.Time) ([]domain.RedemptionRequest, error) {
	rows, err := r.q.ListStaleProcessing(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRedemptions, err)
	}
	return toDomainRedemptions(rows)
}

// ListByAccount builds its query with squirrel since status and limit are optional
func (r *RedemptionRepository) ListByAccount(ctx context.Context, filter domain.RedemptionFilter) ([]domain.RedemptionRequest, error) {
	q := sq.Select(redemptionColumns).
		From("withdrawal_requests").
		Where(sq.Eq{"user_id": filter.AccountID.String()}).
		OrderBy("created_at DESC", "request_id DESC").
		PlaceholderFormat(sq.Dollar)
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRedemptions, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[generated.WithdrawalRequest])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListRedemptions, err)
	}
	return toDomainRedemptions(items)
}

func toDomainRedemptions(rows []generated.WithdrawalRequest) ([]domain.RedemptionRequest, error) {
	out := make([]domain.RedemptionRequest, 0, len(rows))
	for _, row := range rows {
		req, err := toDomainRedemption(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, nil
}

func toDomainRedemption(row generated.WithdrawalRequest) (*domain.RedemptionRequest, error) {
	req := &domain.RedemptionRequest{
		ID:           row.ID,
		RequestID:    row.RequestID,
		AccountID:    row.UserID,
		Method:       domain.ParsePayoutMethod(row.Method),
		Amount:       row.Amount,
		Status:       domain.RedemptionStatus(row.Status),
		StatusReason: row.StatusReason,
		ClaimedBy:    row.ClaimedBy,
		ClaimedAt:    pgtimetzToPtr(row.ClaimedAt),
		CreatedAt:    row.CreatedAt.Time,
		CompletedAt:  pgtimetzToPtr(row.CompletedAt),
	}
	if len(row.Details) > 0 {
		if err := json.Unmarshal(row.Details, &req.Details); err != nil {
			return nil, fmt.Errorf("invalid details for %s: %w", row.RequestID, err)
		}
	}
	return req, nil
}
