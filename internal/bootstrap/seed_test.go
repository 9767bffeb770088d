package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RedeemBot_Go/internal/crypto"
	"github.com/osse101/RedeemBot_Go/internal/database/memory"
	"github.com/osse101/RedeemBot_Go/internal/domain"
)

func testKeyring(t *testing.T) *crypto.Keyring {
	t.Helper()
	kr, err := crypto.NewKeyring(map[string][]byte{"k1": bytes.Repeat([]byte{7}, crypto.KeySize)}, "k1")
	require.NoError(t, err)
	return kr
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validSeed = `{
  "accounts": [{"id": "0b6f1b43-2f0a-4c4b-9a53-4f1f6a0c2d11", "email": "holder@example.com"}],
  "cards": [{"value": "25.00", "country": "eg", "number": "4111111111111111", "expiry": "12/29", "cvv": "123"}],
  "game_codes": [{"unit_value": 500, "region": "MENA", "code": "GC-ABCD-1234", "max_uses": 2}]
}`

func TestLoadInventorySeed(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		seed, err := LoadInventorySeed(writeSeed(t, validSeed))
		require.NoError(t, err)
		assert.Len(t, seed.Cards, 1)
		assert.True(t, seed.Cards[0].Value.Equal(decimal.NewFromInt(25)))
		assert.Len(t, seed.GameCodes, 1)
		assert.Len(t, seed.Accounts, 1)
	})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"cards": [`},
		{"zero card value", `{"cards": [{"value": "0", "number": "4111111111111111", "expiry": "12/29", "cvv": "123"}]}`},
		{"non numeric card number", `{"cards": [{"value": "10", "number": "4111-1111", "expiry": "12/29", "cvv": "123"}]}`},
		{"missing cvv", `{"cards": [{"value": "10", "number": "4111111111111111", "expiry": "12/29"}]}`},
		{"bad country", `{"cards": [{"value": "10", "country": "Egypt", "number": "4111111111111111", "expiry": "12/29", "cvv": "123"}]}`},
		{"game code without units", `{"game_codes": [{"unit_value": 0, "code": "X"}]}`},
		{"game code without code", `{"game_codes": [{"unit_value": 100}]}`},
		{"bad account email", `{"accounts": [{"id": "0b6f1b43-2f0a-4c4b-9a53-4f1f6a0c2d11", "email": "nope"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadInventorySeed(writeSeed(t, tt.body))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadInventorySeed(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})
}

func TestSeedInventory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	kr := testKeyring(t)

	seed, err := LoadInventorySeed(writeSeed(t, validSeed))
	require.NoError(t, err)

	res, err := SeedInventory(ctx, seed, store, kr, store)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Accounts: 1, Cards: 1, GameCodes: 1}, res)

	cards := store.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "1111", cards[0].Last4)
	assert.Equal(t, "EG", cards[0].Country)
	assert.Equal(t, domain.InventoryAvailable, cards[0].Status)
	assert.NotContains(t, cards[0].Secret.Ciphertext, "4111111111111111")

	plain, err := kr.Open(cards[0].Secret)
	require.NoError(t, err)
	var payload domain.CardPayload
	require.NoError(t, json.Unmarshal(plain, &payload))
	assert.Equal(t, domain.CardPayload{Number: "4111111111111111", Expiry: "12/29", CVV: "123"}, payload)

	codes := store.GameCodes()
	require.Len(t, codes, 1)
	assert.Equal(t, 2, codes[0].MaxUses)
	code, err := kr.OpenString(codes[0].Secret)
	require.NoError(t, err)
	assert.Equal(t, "GC-ABCD-1234", code)

	email, err := store.GetContactEmail(ctx, uuid.MustParse("0b6f1b43-2f0a-4c4b-9a53-4f1f6a0c2d11"))
	require.NoError(t, err)
	assert.Equal(t, "holder@example.com", email)

	n, err := store.CountAvailableCards(ctx, decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSeedInventory_SkipsAccountsWithoutSeeder(t *testing.T) {
	store := memory.NewStore()
	seed, err := LoadInventorySeed(writeSeed(t, validSeed))
	require.NoError(t, err)

	res, err := SeedInventory(context.Background(), seed, store, testKeyring(t), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Accounts)
	assert.Equal(t, 1, res.Cards)
}
