package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to RedemptionStatus
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusCompleted, false},
		{StatusFailed, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, RedemptionStatus("cancelled").Valid())
}

func TestParsePayoutMethod(t *testing.T) {
	assert.Equal(t, MethodCard, ParsePayoutMethod("visa"))
	assert.Equal(t, MethodCard, ParsePayoutMethod("card"))
	assert.Equal(t, MethodGameCode, ParsePayoutMethod("FreeFire"))
	assert.Equal(t, MethodCashRail, ParsePayoutMethod(" fawry "))
	assert.Equal(t, MethodUnsupported, ParsePayoutMethod("paypal"))

	unknown := ParsePayoutMethod("bitcoin")
	assert.Equal(t, PayoutMethod("bitcoin"), unknown)
	assert.False(t, unknown.Known())
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, FailureNone, ClassifyError(nil))
	assert.Equal(t, FailureSecurityRejected, ClassifyError(fmt.Errorf("%w: ip", ErrSecurityRejected)))
	assert.Equal(t, FailureInventoryUnavailable, ClassifyError(ErrInventoryUnavailable))
	assert.Equal(t, FailureInventoryUnavailable, ClassifyError(ErrAmountTooSmall))
	assert.Equal(t, FailureUnsupportedMethod, ClassifyError(ErrUnsupportedMethod))
	assert.Equal(t, FailureGateway, ClassifyError(fmt.Errorf("call: %w", ErrGatewayTimeout)))
	assert.Equal(t, FailureInfrastructure, ClassifyError(errors.New("connection reset")))
	assert.Equal(t, FailureInfrastructure, ClassifyError(fmt.Errorf("%w: ping", ErrInfrastructure)))
}

func TestSecurityCheckResult(t *testing.T) {
	passed := SecurityCheckResult{Checks: []CheckResult{
		{Name: CheckIPDiversity, Passed: true},
		{Name: CheckDeviceConsistency, Passed: true},
	}}
	assert.True(t, passed.Passed())
	_, failed := passed.FirstFailure()
	assert.False(t, failed)

	rejected := SecurityCheckResult{Checks: []CheckResult{
		{Name: CheckIPDiversity, Passed: true},
		{Name: CheckDailyLimit, Passed: false, Reason: "daily limit exceeded"},
	}}
	assert.False(t, rejected.Passed())
	assert.False(t, rejected.InfraFailure())
	assert.Equal(t, "daily limit exceeded", rejected.Reason())

	infra := SecurityCheckResult{Checks: []CheckResult{
		{Name: CheckIPDiversity, Passed: false, InfraError: true, Reason: "infrastructure error: ip_diversity"},
	}}
	assert.True(t, infra.InfraFailure())
}

func TestRedactedDropsDetails(t *testing.T) {
	p := RedemptionSettledPayload{
		RequestID: "WTH1",
		Details:   &PayoutDetails{Secret: SealedSecret{KeyID: "k1", Ciphertext: "abcd"}},
	}
	assert.Nil(t, p.Redacted().Details)
	assert.NotNil(t, p.Details)
}
