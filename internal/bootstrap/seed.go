package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/RedeemBot_Go/internal/domain"
	"github.com/osse101/RedeemBot_Go/internal/logger"
	"github.com/osse101/RedeemBot_Go/internal/repository"
	"github.com/osse101/RedeemBot_Go/internal/validation"
)

// InventorySeed is the JSON file format for stocking payout inventory.
// Secrets are given in plaintext and sealed with the active key on import.
type InventorySeed struct {
	Accounts  []SeedAccount  `json:"accounts" validate:"dive"`
	Cards     []SeedCard     `json:"cards" validate:"dive"`
	GameCodes []SeedGameCode `json:"game_codes" validate:"dive"`
}

// SeedAccount is only honoured by the memory backend
type SeedAccount struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Email string    `json:"email" validate:"omitempty,email"`
}

type SeedCard struct {
	Value     decimal.Decimal `json:"value"`
	Country   string          `json:"country" validate:"omitempty,iso3166_1_alpha2"`
	Number    string          `json:"number" validate:"required,numeric,min=4,max=19"`
	Expiry    string          `json:"expiry" validate:"required"`
	CVV       string          `json:"cvv" validate:"required,numeric,min=3,max=4"`
	ExpiresAt *time.Time      `json:"expires_at"`
}

type SeedGameCode struct {
	UnitValue int64      `json:"unit_value" validate:"gt=0"`
	Region    string     `json:"region"`
	Code      string     `json:"code" validate:"required"`
	MaxUses   int        `json:"max_uses" validate:"gte=0"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// SeedResult counts what SeedInventory wrote
type SeedResult struct {
	Accounts  int
	Cards     int
	GameCodes int
}

// Sealer encrypts secrets; *crypto.Keyring satisfies it
type Sealer interface {
	Seal(plaintext []byte) (domain.SealedSecret, error)
	SealString(s string) (domain.SealedSecret, error)
}

// AccountSeeder registers contact details; only the memory store implements it
type AccountSeeder interface {
	AddAccount(id uuid.UUID, email string)
}

var (
	seedValidator = validator.New(validator.WithRequiredStructEnabled())
	seedSchema    = validation.NewSchemaValidator()
)

// LoadInventorySeed reads a seed file, checks it against the embedded JSON
// schema, then decodes and validates the typed form
func LoadInventorySeed(path string) (*InventorySeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadSeed, err)
	}
	if err := seedSchema.ValidateBytes(data, validation.InventorySeedSchema); err != nil {
		return nil, fmt.Errorf(ErrFmtSeedValidationFailed, ErrMsgInvalidSeed, err)
	}
	var seed InventorySeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadSeed, err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks field formats and that every card has a positive value
func (s *InventorySeed) Validate() error {
	if err := seedValidator.Struct(s); err != nil {
		return fmt.Errorf(ErrFmtSeedValidationFailed, ErrMsgInvalidSeed, err)
	}
	for i, c := range s.Cards {
		if !c.Value.IsPositive() {
			return fmt.Errorf(ErrFmtSeedValidationFailed, ErrMsgInvalidSeed,
				fmt.Errorf("card %d: value must be positive, got %s", i, c.Value))
		}
	}
	return nil
}

// SeedInventory seals and stores every entry in seed. accounts may be nil, in
// which case seed accounts are skipped with a warning.
func SeedInventory(ctx context.Context, seed *InventorySeed, inventory repository.Inventory, sealer Sealer, accounts AccountSeeder) (SeedResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSeedingInventory,
		"cards", len(seed.Cards),
		"game_codes", len(seed.GameCodes),
		"accounts", len(seed.Accounts))

	var res SeedResult

	if len(seed.Accounts) > 0 {
		if accounts == nil {
			log.Warn(LogMsgSeedAccountsSkipped, "count", len(seed.Accounts))
		} else {
			for _, a := range seed.Accounts {
				accounts.AddAccount(a.ID, a.Email)
				res.Accounts++
			}
		}
	}

	for i, c := range seed.Cards {
		card, err := c.toCard(i, sealer)
		if err != nil {
			return res, err
		}
		if err := inventory.AddCard(ctx, card); err != nil {
			return res, fmt.Errorf(ErrFmtFailedSeedCard, i, err)
		}
		res.Cards++
	}

	for i, g := range seed.GameCodes {
		secret, err := sealer.SealString(g.Code)
		if err != nil {
			return res, fmt.Errorf(ErrFmtFailedSeedGameCode, i, fmt.Errorf("%s: %w", ErrMsgFailedSealSecret, err))
		}
		code := &domain.GameCode{
			UnitValue: g.UnitValue,
			Region:    g.Region,
			Secret:    secret,
			ExpiresAt: g.ExpiresAt,
			MaxUses:   g.MaxUses,
		}
		if err := inventory.AddGameCode(ctx, code); err != nil {
			return res, fmt.Errorf(ErrFmtFailedSeedGameCode, i, err)
		}
		res.GameCodes++
	}

	log.Info(LogMsgInventorySeeded,
		"accounts", res.Accounts,
		"cards", res.Cards,
		"game_codes", res.GameCodes)
	return res, nil
}

func (c SeedCard) toCard(i int, sealer Sealer) (*domain.PrepaidCard, error) {
	number := c.Number
	if len(number) < 4 {
		return nil, fmt.Errorf(ErrFmtSeedCardLast4, i)
	}
	plain, err := json.Marshal(domain.CardPayload{Number: number, Expiry: c.Expiry, CVV: c.CVV})
	if err != nil {
		return nil, fmt.Errorf(ErrFmtFailedSeedCard, i, err)
	}
	secret, err := sealer.Seal(plain)
	if err != nil {
		return nil, fmt.Errorf(ErrFmtFailedSeedCard, i, fmt.Errorf("%s: %w", ErrMsgFailedSealSecret, err))
	}
	return &domain.PrepaidCard{
		Value:     c.Value,
		Country:   strings.ToUpper(c.Country),
		Last4:     number[len(number)-4:],
		Secret:    secret,
		ExpiresAt: c.ExpiresAt,
	}, nil
}
