package auth

import (
	"crypto/hmac"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/sha3"
)

// IdentityKey derives the deterministic lookup key stored in place of the
// email: HMAC-SHA3-256 of the lowercased address under the server salt. The
// same (salt, email) pair always yields the same key, so login can find the
// user without the store ever holding the address.
func IdentityKey(salt, email string) string {
	mac := hmac.New(newSHA3, []byte(salt))
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(mac.Sum(nil))
}

func newSHA3() hash.Hash {
	return sha3.New256()
}

// HashPassword produces a bcrypt digest with its own random salt
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches the stored digest
func VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
