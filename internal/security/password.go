package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// PasswordDigest returns the lowercase hex SHA-256 digest of the password.
// The remote directory stores this digest in the password_hash field; every
// client that writes the Users table computes the same deterministic value,
// so login can compare digests byte for byte.
func PasswordDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the password matches the stored digest
// using a constant-time comparison.
func VerifyPassword(password string, storedDigest string) bool {
	computed := PasswordDigest(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedDigest)) == 1
}
