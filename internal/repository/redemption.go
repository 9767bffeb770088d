package repository

import (
	"context"
	"time"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

// Redemption persists redemption requests and their status transitions.
//
// Every transition is conditional on the current status, so concurrent callers
// racing on the same request observe at most one winner.
type Redemption interface {
	// Create inserts a pending request. Intake owns this path; the engine only
	// uses it from tooling and tests.
	Create(ctx context.Context, req *domain.RedemptionRequest) error

	GetByRequestID(ctx context.Context, requestID string) (*domain.RedemptionRequest, error)

	// ListPendingIDs returns up to limit pending request ids, oldest first
	ListPendingIDs(ctx context.Context, limit int) ([]string, error)

	// ClaimForProcessing moves pending -> processing. It reports false when
	// the request was not pending.
	ClaimForProcessing(ctx context.Context, requestID, instanceID string) (bool, error)

	// CompleteRequest moves processing -> completed. It reports false when
	// the request was not processing.
	CompleteRequest(ctx context.Context, requestID, reason string) (bool, error)

	// FailRequest moves processing -> failed. It reports false when the
	// request was not processing.
	FailRequest(ctx context.Context, requestID, reason string) (bool, error)

	// ListStaleProcessing returns processing requests claimed before cutoff
	ListStaleProcessing(ctx context.Context, cutoff time.Time) ([]domain.RedemptionRequest, error)

	// ListByAccount returns an account's requests, newest first
	ListByAccount(ctx context.Context, filter domain.RedemptionFilter) ([]domain.RedemptionRequest, error)
}
