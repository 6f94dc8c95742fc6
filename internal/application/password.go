package application

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/example/eventlist/internal/record"
)

// NewPasswordHasher returns a deterministic digest of the process-wide salt
// concatenated with the password. There is no per-user salt, so equal
// passwords yield equal digests; the credential lookup depends on that when it
// matches email and digest in a single query.
func NewPasswordHasher(salt string) record.Hasher {
	return func(password string) string {
		sum := sha3.Sum256([]byte(salt + password))
		return hex.EncodeToString(sum[:])
	}
}
