package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// argon2id parameters; changing them invalidates stored hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword derives a salted digest for the given password. A fresh random
// salt is generated on every call; salts are never reused across accounts.
// Both values are returned hex-encoded.
func HashPassword(password string) (salt string, hash string, err error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), raw, argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(raw), hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest from the stored salt and the supplied
// password and compares it against the stored hash in constant time.
func VerifyPassword(salt, password, hash string) bool {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}

	digest := argon2.IDKey([]byte(password), rawSalt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(digest, expected) == 1
}
