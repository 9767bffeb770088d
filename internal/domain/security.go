package domain

import "strings"

// Security check names, in evaluation order
const (
	CheckIPDiversity        = "ip_diversity"
	CheckDeviceConsistency  = "device_consistency"
	CheckDailyLimit         = "daily_limit"
	CheckSuspiciousActivity = "suspicious_activity"
)

// CheckResult is the outcome of a single security check
type CheckResult struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Reason     string `json:"reason,omitempty"`
	InfraError bool   `json:"infra_error,omitempty"`
}

// SecurityCheckResult is the ordered list of checks that ran. Evaluation stops
// at the first failure, so a failed result ends with the failing check.
type SecurityCheckResult struct {
	Checks []CheckResult `json:"checks"`
}

// Passed reports whether every check that ran passed
func (r SecurityCheckResult) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// FirstFailure returns the failing check, if any
func (r SecurityCheckResult) FirstFailure() (CheckResult, bool) {
	for _, c := range r.Checks {
		if !c.Passed {
			return c, true
		}
	}
	return CheckResult{}, false
}

// InfraFailure reports whether the failure came from a data-access error
// rather than a genuine risk signal
func (r SecurityCheckResult) InfraFailure() bool {
	c, ok := r.FirstFailure()
	return ok && c.InfraError
}

// Reason joins the reasons of every failed check
func (r SecurityCheckResult) Reason() string {
	var reasons []string
	for _, c := range r.Checks {
		if !c.Passed && c.Reason != "" {
			reasons = append(reasons, c.Reason)
		}
	}
	return strings.Join(reasons, "; ")
}
