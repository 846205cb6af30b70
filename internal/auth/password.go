package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	digestIterations = 4096
	digestKeyLen     = 32
)

// PasswordHasher produces a deterministic, forward-irreversible digest: the
// same password always yields the same stored digest, so equality checks need
// no per-row metadata. The process-wide pepper keys the derivation.
type PasswordHasher struct {
	pepper []byte
}

func NewPasswordHasher(pepper string) PasswordHasher {
	return PasswordHasher{pepper: []byte(pepper)}
}

func (h PasswordHasher) Hash(password string) string {
	key := pbkdf2.Key([]byte(password), h.pepper, digestIterations, digestKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

func (h PasswordHasher) Verify(password, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(h.Hash(password)), []byte(digest)) == 1
}
