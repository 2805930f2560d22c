package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// methodHashBytes is the number of digest bytes kept for a method hash.
const methodHashBytes = 16

// MethodHash derives the content hash of an original method from its name.
// Duplicated methods never call this; they keep the source hash and get
// re-prefixed instead.
func MethodHash(name string) string {
	sum := blake2b.Sum256([]byte(name))
	return hex.EncodeToString(sum[:methodHashBytes])
}
