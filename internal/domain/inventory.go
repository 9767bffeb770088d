package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryStatus is the availability of a prepaid card or game code
type InventoryStatus string

const (
	InventoryAvailable InventoryStatus = "available"
	InventoryClaimed   InventoryStatus = "claimed"
)

// SealedSecret is an encrypted payload plus the id of the key that sealed it.
// Only the notification dispatcher opens it.
type SealedSecret struct {
	KeyID      string `json:"key_id"`
	Ciphertext string `json:"-"`
}

// IsZero reports whether nothing is sealed
func (s SealedSecret) IsZero() bool {
	return s.Ciphertext == ""
}

// CardPayload is the plaintext sealed inside a prepaid card's secret
type CardPayload struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// PrepaidCard is a single-use card whose face value must equal the request amount
type PrepaidCard struct {
	ID                uuid.UUID
	Value             decimal.Decimal
	Country           string
	Last4             string
	Secret            SealedSecret
	ExpiresAt         *time.Time
	Status            InventoryStatus
	AssignedTo        *uuid.UUID
	AssignedRequestID string
	ClaimedAt         *time.Time
	CreatedAt         time.Time
}

// GameCode is a redeemable game-currency code that may be used up to MaxUses times
type GameCode struct {
	ID         uuid.UUID
	UnitValue  int64
	Region     string
	Secret     SealedSecret
	ExpiresAt  *time.Time
	UsesCount  int
	MaxUses    int
	Status     InventoryStatus
	AssignedTo *uuid.UUID
	ClaimedAt  *time.Time
	CreatedAt  time.Time
}

// Exhausted reports whether every use has been handed out
func (c GameCode) Exhausted() bool {
	return c.UsesCount >= c.MaxUses
}

// CardClaim describes which card to claim and who gets it
type CardClaim struct {
	Value     decimal.Decimal
	AccountID uuid.UUID
	RequestID string
}

// GameCodeClaim describes how many currency units to claim and who gets them
type GameCodeClaim struct {
	Units     int64
	AccountID uuid.UUID
	RequestID string
}

// PayoutDetails is the sensitive result of a successful settlement. It travels
// in memory to the notification dispatcher and is never exposed by status reads.
type PayoutDetails struct {
	Method           PayoutMethod
	ItemID           *uuid.UUID
	Secret           SealedSecret
	Last4            string
	Country          string
	Units            int64
	ExpiresAt        *time.Time
	GatewayReference string
}
