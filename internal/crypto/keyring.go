// Package crypto seals payout secrets at rest with AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

// KeySize is the AES-256 key length in bytes
const KeySize = 32

// Keyring holds every key that may have sealed a stored secret. New secrets are
// sealed with the active key; old ones open with whichever key id they carry.
type Keyring struct {
	aeads  map[string]cipher.AEAD
	active string
}

// ParseKeyring parses "id:hexkey,id:hexkey". activeID selects the sealing key;
// when empty the first key listed is active.
func ParseKeyring(list, activeID string) (*Keyring, error) {
	keys := make(map[string][]byte)
	var first string
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, hexKey, ok := strings.Cut(entry, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf(ErrFmtMalformedEntry, entry)
		}
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf(ErrFmtBadHex, id, err)
		}
		if _, dup := keys[id]; dup {
			return nil, fmt.Errorf(ErrFmtDuplicateKey, id)
		}
		keys[id] = key
		if first == "" {
			first = id
		}
	}
	if len(keys) == 0 {
		return nil, errors.New(ErrMsgNoKeys)
	}
	if activeID == "" {
		activeID = first
	}
	return NewKeyring(keys, activeID)
}

// NewKeyring builds a keyring from raw keys
func NewKeyring(keys map[string][]byte, activeID string) (*Keyring, error) {
	kr := &Keyring{aeads: make(map[string]cipher.AEAD, len(keys)), active: activeID}
	for id, key := range keys {
		if len(key) != KeySize {
			return nil, fmt.Errorf(ErrFmtBadKeySize, id, len(key), KeySize)
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", id, err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", id, err)
		}
		kr.aeads[id] = aead
	}
	if _, ok := kr.aeads[activeID]; !ok {
		return nil, fmt.Errorf("%w: active key %q", domain.ErrUnknownKey, activeID)
	}
	return kr, nil
}

// ActiveKeyID returns the id new secrets are sealed with
func (k *Keyring) ActiveKeyID() string {
	return k.active
}

// KeyIDs lists the loaded key ids in sorted order
func (k *Keyring) KeyIDs() []string {
	ids := make([]string, 0, len(k.aeads))
	for id := range k.aeads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Seal encrypts plaintext with the active key. The ciphertext is
// base64(nonce || sealed) and the key id is bound as additional data.
func (k *Keyring) Seal(plaintext []byte) (domain.SealedSecret, error) {
	aead := k.aeads[k.active]
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return domain.SealedSecret{}, fmt.Errorf("nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plaintext, []byte(k.active))
	return domain.SealedSecret{
		KeyID:      k.active,
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
	}, nil
}

// Open decrypts a sealed secret with the key it names
func (k *Keyring) Open(secret domain.SealedSecret) ([]byte, error) {
	aead, ok := k.aeads[secret.KeyID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKey, secret.KeyID)
	}
	raw, err := base64.StdEncoding.DecodeString(secret.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptFailed, err)
	}
	if len(raw) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", domain.ErrDecryptFailed)
	}
	nonce, body := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, body, []byte(secret.KeyID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryptFailed, err)
	}
	return plaintext, nil
}

// SealString is Seal for text secrets such as game codes
func (k *Keyring) SealString(s string) (domain.SealedSecret, error) {
	return k.Seal([]byte(s))
}

// OpenString is Open for text secrets
func (k *Keyring) OpenString(secret domain.SealedSecret) (string, error) {
	b, err := k.Open(secret)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
