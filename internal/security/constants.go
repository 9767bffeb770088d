package security

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults used when Config leaves a field zero
const (
	DefaultSessionWindow            = 5
	DefaultIPDiversityThreshold     = 3
	DefaultDeviceDiversityThreshold = 2

	// DailyWindow is the trailing period the daily limit sums over
	DailyWindow = 24 * time.Hour
)

// DefaultDailyLimit is the maximum total an account may withdraw per DailyWindow
var DefaultDailyLimit = decimal.NewFromInt(50)

// Reason formats
const (
	ReasonFmtIPDiversity  = "too many distinct IP addresses (%d) in last %d sessions"
	ReasonFmtDeviceChange = "too many distinct devices (%d) in last %d sessions"
	ReasonFmtDailyLimit   = "daily withdrawal limit exceeded (%s > %s)"
	ReasonFmtRiskFlags    = "suspicious activity flagged: %s"
	ReasonFmtInfraError   = "infrastructure error: %s"
)

// Log messages
const (
	LogMsgCheckFailed      = "Security check failed"
	LogMsgCheckInfraFailed = "Security check could not read account data"
)
