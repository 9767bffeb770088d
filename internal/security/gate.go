package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
	"github.com/osse101/RedeemBot_Go/internal/repository"
)

// Config holds the gate thresholds
type Config struct {
	SessionWindow            int
	IPDiversityThreshold     int
	DeviceDiversityThreshold int
	DailyLimit               decimal.Decimal
}

func (c *Config) applyDefaults() {
	if c.SessionWindow <= 0 {
		c.SessionWindow = DefaultSessionWindow
	}
	if c.IPDiversityThreshold <= 0 {
		c.IPDiversityThreshold = DefaultIPDiversityThreshold
	}
	if c.DeviceDiversityThreshold <= 0 {
		c.DeviceDiversityThreshold = DefaultDeviceDiversityThreshold
	}
	if !c.DailyLimit.IsPositive() {
		c.DailyLimit = DefaultDailyLimit
	}
}

// Gate runs the pre-settlement fraud checks. It only reads; a rejected
// request is failed by the caller.
type Gate struct {
	repo repository.Security
	cfg  Config
	now  func() time.Time
}

// NewGate creates a Gate
func NewGate(repo repository.Security, cfg Config) *Gate {
	cfg.applyDefaults()
	return &Gate{repo: repo, cfg: cfg, now: time.Now}
}

type check struct {
	name string
	run  func(ctx context.Context, req *domain.RedemptionRequest, sessions *sessionCache) (passed bool, reason string, err error)
}

// sessionCache lets the two session checks share one read
type sessionCache struct {
	loaded   bool
	sessions []repository.SessionInfo
	err      error
}

// Evaluate runs the checks in order and stops at the first failure. A
// data-access error fails its check with InfraError set, so the gate never
// passes a request it could not inspect.
func (g *Gate) Evaluate(ctx context.Context, req *domain.RedemptionRequest) domain.SecurityCheckResult {
	log := logger.FromContext(ctx)
	checks := []check{
		{domain.CheckIPDiversity, g.checkIPDiversity},
		{domain.CheckDeviceConsistency, g.checkDeviceConsistency},
		{domain.CheckDailyLimit, g.checkDailyLimit},
		{domain.CheckSuspiciousActivity, g.checkRiskFlags},
	}

	var result domain.SecurityCheckResult
	cache := &sessionCache{}
	for _, c := range checks {
		passed, reason, err := c.run(ctx, req, cache)
		if err != nil {
			log.Error(LogMsgCheckInfraFailed, "check", c.name, "account_id", req.AccountID, "error", err)
			metrics.SecurityCheckFailures.WithLabelValues(c.name, metrics.KindInfra).Inc()
			result.Checks = append(result.Checks, domain.CheckResult{
				Name:       c.name,
				Reason:     fmt.Sprintf(ReasonFmtInfraError, c.name),
				InfraError: true,
			})
			return result
		}

		result.Checks = append(result.Checks, domain.CheckResult{Name: c.name, Passed: passed, Reason: reason})
		if !passed {
			log.Warn(LogMsgCheckFailed, "check", c.name, "account_id", req.AccountID, "reason", reason)
			metrics.SecurityCheckFailures.WithLabelValues(c.name, metrics.KindRejected).Inc()
			return result
		}
	}
	return result
}

func (g *Gate) recentSessions(ctx context.Context, accountID uuid.UUID, cache *sessionCache) ([]repository.SessionInfo, error) {
	if !cache.loaded {
		cache.sessions, cache.err = g.repo.RecentSessions(ctx, accountID, g.cfg.SessionWindow)
		cache.loaded = true
	}
	return cache.sessions, cache.err
}

func (g *Gate) checkIPDiversity(ctx context.Context, req *domain.RedemptionRequest, cache *sessionCache) (bool, string, error) {
	sessions, err := g.recentSessions(ctx, req.AccountID, cache)
	if err != nil {
		return false, "", err
	}
	distinct := countDistinct(sessions, func(s repository.SessionInfo) string { return s.IPAddress })
	if distinct > g.cfg.IPDiversityThreshold {
		return false, fmt.Sprintf(ReasonFmtIPDiversity, distinct, g.cfg.SessionWindow), nil
	}
	return true, "", nil
}

func (g *Gate) checkDeviceConsistency(ctx context.Context, req *domain.RedemptionRequest, cache *sessionCache) (bool, string, error) {
	sessions, err := g.recentSessions(ctx, req.AccountID, cache)
	if err != nil {
		return false, "", err
	}
	distinct := countDistinct(sessions, func(s repository.SessionInfo) string { return s.DeviceID })
	if distinct > g.cfg.DeviceDiversityThreshold {
		return false, fmt.Sprintf(ReasonFmtDeviceChange, distinct, g.cfg.SessionWindow), nil
	}
	return true, "", nil
}

func (g *Gate) checkDailyLimit(ctx context.Context, req *domain.RedemptionRequest, _ *sessionCache) (bool, string, error) {
	total, err := g.repo.WithdrawnSince(ctx, req.AccountID, g.now().Add(-DailyWindow))
	if err != nil {
		return false, "", err
	}
	if total.GreaterThan(g.cfg.DailyLimit) {
		return false, fmt.Sprintf(ReasonFmtDailyLimit, total.StringFixed(2), g.cfg.DailyLimit.StringFixed(2)), nil
	}
	return true, "", nil
}

func (g *Gate) checkRiskFlags(ctx context.Context, req *domain.RedemptionRequest, _ *sessionCache) (bool, string, error) {
	flags, err := g.repo.ActiveRiskFlags(ctx, req.AccountID)
	if err != nil {
		return false, "", err
	}
	if len(flags) > 0 {
		return false, fmt.Sprintf(ReasonFmtRiskFlags, strings.Join(flags, ", ")), nil
	}
	return true, "", nil
}

// countDistinct ignores empty values; a session without a recorded device
// says nothing about device churn
func countDistinct(sessions []repository.SessionInfo, key func(repository.SessionInfo) string) int {
	seen := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if k := key(s); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}
