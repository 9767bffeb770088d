package settlement

import (
	"os"

	"github.com/google/uuid"
)

// NewInstanceID returns "<hostname>-<8 hex chars>" for claimed_by
func NewInstanceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "redeem"
	}
	return host + "-" + uuid.NewString()[:8]
}
