package doc

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainQuery = "sqlmongo/query/v1"
)

// Fingerprint computes SHA-256 of the compact JSON of v with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func Fingerprint(domain string, v Value) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(MarshalCompact(v))
	return hex.EncodeToString(h.Sum(nil))
}
