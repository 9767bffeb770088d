package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// MockSecurityRepository is a mock implementation of repository.Security
type MockSecurityRepository struct {
	mock.Mock
}

func (m *MockSecurityRepository) RecentSessions(ctx context.Context, accountID uuid.UUID, n int) ([]repository.SessionInfo, error) {
	args := m.Called(ctx, accountID, n)
	sessions, _ := args.Get(0).([]repository.SessionInfo)
	return sessions, args.Error(1)
}

func (m *MockSecurityRepository) WithdrawnSince(ctx context.Context, accountID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSecurityRepository) ActiveRiskFlags(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, accountID)
	flags, _ := args.Get(0).([]string)
	return flags, args.Error(1)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGate(repo repository.Security) *Gate {
	g := NewGate(repo, Config{})
	g.now = func() time.Time { return fixedNow }
	return g
}

func sessions(pairs ...[2]string) []repository.SessionInfo {
	out := make([]repository.SessionInfo, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, repository.SessionInfo{IPAddress: p[0], DeviceID: p[1]})
	}
	return out
}

func testRequest() *domain.RedemptionRequest {
	return &domain.RedemptionRequest{
		RequestID: "req-1",
		AccountID: uuid.New(),
		Method:    domain.MethodCard,
		Amount:    decimal.NewFromInt(10),
	}
}

func TestGate_AllChecksPass(t *testing.T) {
	repo := new(MockSecurityRepository)
	req := testRequest()
	repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).
		Return(sessions([2]string{"1.1.1.1", "d1"}, [2]string{"1.1.1.2", "d1"}), nil).Once()
	repo.On("WithdrawnSince", mock.Anything, req.AccountID, fixedNow.Add(-DailyWindow)).
		Return(decimal.NewFromInt(50), nil)
	repo.On("ActiveRiskFlags", mock.Anything, req.AccountID).Return([]string{}, nil)

	result := newTestGate(repo).Evaluate(context.Background(), req)

	assert.True(t, result.Passed())
	require.Len(t, result.Checks, 4)
	assert.Equal(t, domain.CheckIPDiversity, result.Checks[0].Name)
	assert.Equal(t, domain.CheckDeviceConsistency, result.Checks[1].Name)
	assert.Equal(t, domain.CheckDailyLimit, result.Checks[2].Name)
	assert.Equal(t, domain.CheckSuspiciousActivity, result.Checks[3].Name)
	repo.AssertExpectations(t)
}

func TestGate_NoSessionsPassesSessionChecks(t *testing.T) {
	repo := new(MockSecurityRepository)
	req := testRequest()
	repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).Return(nil, nil)
	repo.On("WithdrawnSince", mock.Anything, req.AccountID, mock.Anything).Return(decimal.Zero, nil)
	repo.On("ActiveRiskFlags", mock.Anything, req.AccountID).Return(nil, nil)

	result := newTestGate(repo).Evaluate(context.Background(), req)
	assert.True(t, result.Passed())
}

func TestGate_IPDiversity(t *testing.T) {
	tests := []struct {
		name   string
		ips    []string
		passed bool
	}{
		{"three distinct passes", []string{"a", "b", "c", "a", "b"}, true},
		{"four distinct fails", []string{"a", "b", "c", "d", "a"}, false},
		{"five distinct fails", []string{"a", "b", "c", "d", "e"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSecurityRepository)
			req := testRequest()
			var s []repository.SessionInfo
			for _, ip := range tt.ips {
				s = append(s, repository.SessionInfo{IPAddress: ip, DeviceID: "d1"})
			}
			repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).Return(s, nil)
			repo.On("WithdrawnSince", mock.Anything, req.AccountID, mock.Anything).Return(decimal.Zero, nil).Maybe()
			repo.On("ActiveRiskFlags", mock.Anything, req.AccountID).Return(nil, nil).Maybe()

			result := newTestGate(repo).Evaluate(context.Background(), req)
			assert.Equal(t, tt.passed, result.Passed())
			if !tt.passed {
				failed, ok := result.FirstFailure()
				require.True(t, ok)
				assert.Equal(t, domain.CheckIPDiversity, failed.Name)
				assert.False(t, failed.InfraError)
				assert.Len(t, result.Checks, 1, "evaluation stops at the first failure")
				repo.AssertNotCalled(t, "WithdrawnSince", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGate_DeviceConsistency(t *testing.T) {
	repo := new(MockSecurityRepository)
	req := testRequest()
	repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).
		Return(sessions([2]string{"ip", "d1"}, [2]string{"ip", "d2"}, [2]string{"ip", "d3"}), nil).Once()

	result := newTestGate(repo).Evaluate(context.Background(), req)

	failed, ok := result.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, domain.CheckDeviceConsistency, failed.Name)
	assert.Len(t, result.Checks, 2)
	repo.AssertExpectations(t)
}

func TestGate_DailyLimit(t *testing.T) {
	tests := []struct {
		name   string
		total  string
		passed bool
	}{
		{"at limit passes", "50.00", true},
		{"over limit fails", "50.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSecurityRepository)
			req := testRequest()
			repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).Return(nil, nil)
			repo.On("WithdrawnSince", mock.Anything, req.AccountID, fixedNow.Add(-DailyWindow)).
				Return(decimal.RequireFromString(tt.total), nil)
			repo.On("ActiveRiskFlags", mock.Anything, req.AccountID).Return(nil, nil).Maybe()

			result := newTestGate(repo).Evaluate(context.Background(), req)
			assert.Equal(t, tt.passed, result.Passed())
			if !tt.passed {
				assert.Contains(t, result.Reason(), "daily withdrawal limit exceeded")
			}
		})
	}
}

func TestGate_RiskFlags(t *testing.T) {
	repo := new(MockSecurityRepository)
	req := testRequest()
	repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).Return(nil, nil)
	repo.On("WithdrawnSince", mock.Anything, req.AccountID, mock.Anything).Return(decimal.Zero, nil)
	repo.On("ActiveRiskFlags", mock.Anything, req.AccountID).Return([]string{"chargeback", "manual_review"}, nil)

	result := newTestGate(repo).Evaluate(context.Background(), req)

	failed, ok := result.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, domain.CheckSuspiciousActivity, failed.Name)
	assert.Contains(t, failed.Reason, "chargeback, manual_review")
}

func TestGate_InfrastructureErrorFailsClosed(t *testing.T) {
	dbErr := errors.New("connection refused")

	t.Run("sessions", func(t *testing.T) {
		repo := new(MockSecurityRepository)
		req := testRequest()
		repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).Return(nil, dbErr)

		result := newTestGate(repo).Evaluate(context.Background(), req)
		assert.False(t, result.Passed())
		assert.True(t, result.InfraFailure())
		assert.Equal(t, "infrastructure error: ip_diversity", result.Reason())
	})

	t.Run("risk flags", func(t *testing.T) {
		repo := new(MockSecurityRepository)
		req := testRequest()
		repo.On("RecentSessions", mock.Anything, req.AccountID, DefaultSessionWindow).Return(nil, nil)
		repo.On("WithdrawnSince", mock.Anything, req.AccountID, mock.Anything).Return(decimal.Zero, nil)
		repo.On("ActiveRiskFlags", mock.Anything, req.AccountID).Return(nil, dbErr)

		result := newTestGate(repo).Evaluate(context.Background(), req)
		assert.False(t, result.Passed())
		assert.True(t, result.InfraFailure())
		assert.Len(t, result.Checks, 4)
	})
}

func TestNewGate_CustomThresholds(t *testing.T) {
	repo := new(MockSecurityRepository)
	req := testRequest()
	g := NewGate(repo, Config{SessionWindow: 3, IPDiversityThreshold: 1, DailyLimit: decimal.NewFromInt(5)})
	repo.On("RecentSessions", mock.Anything, req.AccountID, 3).
		Return(sessions([2]string{"a", "d"}, [2]string{"b", "d"}), nil)

	result := g.Evaluate(context.Background(), req)
	failed, ok := result.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, domain.CheckIPDiversity, failed.Name)
}
