package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// Verification codes are stateless: the first 9 characters commit to the
// email under the server salt, the last 6 are random filler so two codes
// for the same address still differ. Verifying only needs the email and
// the salt, no storage.

const (
	codeCommitLen = 9
	codeRandomLen = 6
	// CodeLen is the total length of a verification code
	CodeLen = codeCommitLen + codeRandomLen
)

func codeCommitment(salt, email string) string {
	mac := hmac.New(newSHA3, []byte(salt))
	mac.Write([]byte("verify:" + strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(mac.Sum(nil))[:codeCommitLen]
}

// GenerateCode builds a verification code bound to the email
func GenerateCode(salt, email string) (string, error) {
	random := make([]byte, codeRandomLen/2)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	return codeCommitment(salt, email) + hex.EncodeToString(random), nil
}

// VerifyCode reports whether the code was generated for the email
func VerifyCode(salt, email, code string) bool {
	if len(code) != CodeLen {
		return false
	}
	commit := codeCommitment(salt, email)
	return hmac.Equal([]byte(code[:codeCommitLen]), []byte(commit))
}
