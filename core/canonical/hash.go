package canonical

import (
	"crypto/sha256"
	"encoding/hex"

	"price-tracker/core/catalog"
)

// Hash returns the lowercase hex SHA-256 digest of a canonical encoding.
// Identical input always yields identical output across processes and
// machines; collision risk at this strength is accepted as negligible.
func Hash(encoded string) string {
	sum := sha256.Sum256([]byte(encoded))
	return hex.EncodeToString(sum[:])
}

// Fingerprint is the convenience composition Encode + Hash.
func Fingerprint(r catalog.ProductRecord) string {
	return Hash(Encode(r))
}
