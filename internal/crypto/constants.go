package crypto

// Error messages
const (
	ErrMsgNoKeys         = "keyring: no keys configured"
	ErrFmtMalformedEntry = "keyring: malformed entry %q, want id:hexkey"
	ErrFmtBadHex         = "keyring: key %q is not hex: %v"
	ErrFmtDuplicateKey   = "keyring: duplicate key id %q"
	ErrFmtBadKeySize     = "keyring: key %q is %d bytes, want %d"
)
