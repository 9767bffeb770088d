package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionInfo is one recorded login session
type SessionInfo struct {
	IPAddress string
	DeviceID  string
	CreatedAt time.Time
}

// Security exposes the read-only account signals the security gate evaluates
type Security interface {
	// RecentSessions returns up to n of the account's most recent sessions
	RecentSessions(ctx context.Context, accountID uuid.UUID, n int) ([]SessionInfo, error)

	// WithdrawnSince sums the amounts of the account's non-failed requests
	// created at or after since
	WithdrawnSince(ctx context.Context, accountID uuid.UUID, since time.Time) (decimal.Decimal, error)

	// ActiveRiskFlags returns the names of the account's active risk flags
	ActiveRiskFlags(ctx context.Context, accountID uuid.UUID) ([]string, error)
}

// Account resolves how to reach an account holder
type Account interface {
	// GetContactEmail returns domain.ErrAccountNotFound or domain.ErrNoContact
	// when there is nowhere to send a notification
	GetContactEmail(ctx context.Context, accountID uuid.UUID) (string, error)
}
