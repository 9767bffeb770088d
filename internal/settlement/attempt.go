package settlement

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/event"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/metrics"
)

// decision is the terminal status chosen for a claimed request
type decision struct {
	req     *domain.RedemptionRequest
	status  domain.RedemptionStatus
	reason  string
	kind    domain.FailureKind
	details *domain.PayoutDetails
}

// AttemptSettlement is the single entry point for settling a request. It is
// safe to call any number of times, from any number of goroutines or
// processes: only the caller that moves the request from pending to
// processing does any work.
//
// A claim error leaves the request pending and is returned so the caller can
// retry later. After a successful claim the request always gets a terminal
// decision; a failure to persist that decision is logged and reported as
// ResultUncommitted.
func (e *Engine) AttemptSettlement(ctx context.Context, requestID string) (Result, error) {
	ctx = logger.WithRequestID(ctx, requestID)
	log := logger.FromContext(ctx)

	won, err := e.repo.ClaimForProcessing(ctx, requestID, e.cfg.InstanceID)
	if err != nil {
		log.Error(LogMsgClaimFailed, "error", err)
		return ResultSkipped, fmt.Errorf("claim %s: %w", requestID, err)
	}
	if !won {
		log.Debug(LogMsgClaimSkipped)
		return ResultSkipped, nil
	}

	claimedAt := e.now()
	d := e.decide(ctx, requestID)

	// The decision must be written even if the caller is going away.
	commitCtx := context.WithoutCancel(ctx)
	result, err := e.commit(commitCtx, requestID, d)
	if err != nil {
		return result, err
	}

	method := domain.MethodUnsupported
	if d.req != nil {
		method = d.req.Method
	}
	metrics.SettlementDuration.WithLabelValues(string(method)).Observe(e.now().Sub(claimedAt).Seconds())
	log.Info(LogMsgSettled, "status", d.status, "reason", d.reason, "method", method)

	e.publish(commitCtx, requestID, d)
	return result, nil
}

// decide runs the gate and the payout for a claimed request. A panic anywhere
// in here fails the request instead of leaving it processing.
func (e *Engine) decide(ctx context.Context, requestID string) (d decision) {
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgSettlementPanic, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			d = decision{
				req:    d.req,
				status: domain.StatusFailed,
				reason: domain.ErrMsgInternalProcessing,
				kind:   domain.FailureInfrastructure,
			}
		}
	}()

	req, err := e.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		log.Error(LogMsgLoadFailed, "error", err)
		return decision{status: domain.StatusFailed, reason: ReasonRequestUnreadable, kind: domain.FailureInfrastructure}
	}
	d.req = req

	check := e.gate.Evaluate(ctx, req)
	if !check.Passed() {
		kind := domain.FailureSecurityRejected
		if check.InfraFailure() {
			kind = domain.FailureInfrastructure
		}
		log.Warn(LogMsgSecurityRejected, "reason", check.Reason(), "infra", check.InfraFailure())
		return decision{
			req:    req,
			status: domain.StatusFailed,
			reason: fmt.Sprintf(ReasonFmtSecurityRejected, check.Reason()),
			kind:   kind,
		}
	}

	outcome := e.payouts.Settle(ctx, req)
	if !outcome.Success {
		log.Warn(LogMsgPayoutFailed, "reason", outcome.Message, "kind", outcome.Kind)
		kind := outcome.Kind
		if kind == domain.FailureNone {
			kind = domain.FailureInfrastructure
		}
		return decision{req: req, status: domain.StatusFailed, reason: outcome.Message, kind: kind}
	}

	return decision{
		req:     req,
		status:  domain.StatusCompleted,
		reason:  outcome.Message,
		details: outcome.Details,
	}
}

// commit writes the terminal status, retrying transient store errors
func (e *Engine) commit(ctx context.Context, requestID string, d decision) (Result, error) {
	log := logger.FromContext(ctx)

	write := e.repo.FailRequest
	result := ResultFailed
	if d.status == domain.StatusCompleted {
		write = e.repo.CompleteRequest
		result = ResultCompleted
	}

	var lastErr error
	for attempt := 1; attempt <= e.cfg.TerminalCommitAttempts; attempt++ {
		ok, err := write(ctx, requestID, d.reason)
		if err == nil {
			if !ok {
				// Only the claimer may leave processing, so this means the row
				// was changed behind the engine's back.
				log.Error(LogMsgCommitLost, "status", d.status)
				return ResultUncommitted, fmt.Errorf("commit %s: %w", requestID, domain.ErrRequestNotClaimed)
			}
			return result, nil
		}

		lastErr = err
		if attempt == e.cfg.TerminalCommitAttempts {
			break
		}
		delay := event.CalculateRetryDelay(e.cfg.TerminalCommitBackoff, attempt, 0)
		log.Warn(LogMsgCommitRetry, "attempt", attempt, "delay", delay, "error", err)
		time.Sleep(delay)
	}

	log.Error(LogMsgCommitExhausted,
		"status", d.status,
		"reason", d.reason,
		"attempts", e.cfg.TerminalCommitAttempts,
		"error", lastErr)
	return ResultUncommitted, fmt.Errorf("commit %s: %w", requestID, lastErr)
}

// publish announces the committed transition. Subscribers are best-effort.
func (e *Engine) publish(ctx context.Context, requestID string, d decision) {
	if e.bus == nil {
		return
	}
	payload := domain.RedemptionSettledPayload{
		RequestID:   requestID,
		Status:      d.status,
		Reason:      d.reason,
		FailureKind: d.kind,
		SettledAt:   e.now(),
		Details:     d.details,
	}
	if d.req != nil {
		payload.AccountID = d.req.AccountID
		payload.Method = d.req.Method
		payload.Amount = d.req.Amount
	}
	evt := event.NewRedemptionSettledEvent(payload, e.cfg.InstanceID)
	if err := e.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
		metrics.EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
	}
}
