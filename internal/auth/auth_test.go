package auth

import (
	"testing"
	"time"

	"github.com/bmohak/echo/internal/models"
)

func TestIdentityKeyDeterministic(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"same email", "student@mit.edu", "student@mit.edu", true},
		{"case insensitive", "Student@MIT.edu", "student@mit.edu", true},
		{"surrounding whitespace", "  student@mit.edu ", "student@mit.edu", true},
		{"different emails", "a@mit.edu", "b@mit.edu", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := IdentityKey("salt", tt.a)
			kb := IdentityKey("salt", tt.b)
			if (ka == kb) != tt.equal {
				t.Errorf("IdentityKey(%q) == IdentityKey(%q): got %v, want %v", tt.a, tt.b, ka == kb, tt.equal)
			}
		})
	}
}

func TestIdentityKeySaltSeparation(t *testing.T) {
	if IdentityKey("salt1", "a@mit.edu") == IdentityKey("salt2", "a@mit.edu") {
		t.Error("keys under different salts should differ")
	}
	if len(IdentityKey("salt", "a@mit.edu")) != 64 {
		t.Errorf("key length = %d, want 64", len(IdentityKey("salt", "a@mit.edu")))
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "correct horse battery") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 42, Username: "alice", IsAdmin: true}
	token, err := IssueToken("secret", time.Hour, user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || !claims.IsAdmin {
		t.Errorf("claims = %+v, want uid 42, alice, admin", claims)
	}
}

func TestTokenRejection(t *testing.T) {
	user := &models.User{ID: 1, Username: "bob"}

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := IssueToken("secret", time.Hour, user)
		if _, err := ParseToken("other", token); err == nil {
			t.Error("token signed with different secret accepted")
		}
	})

	t.Run("expired", func(t *testing.T) {
		token, _ := IssueToken("secret", -time.Minute, user)
		if _, err := ParseToken("secret", token); err == nil {
			t.Error("expired token accepted")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseToken("secret", "not.a.token"); err == nil {
			t.Error("malformed token accepted")
		}
	})
}

func TestVerificationCode(t *testing.T) {
	code, err := GenerateCode("salt", "student@mit.edu")
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if len(code) != CodeLen {
		t.Fatalf("code length = %d, want %d", len(code), CodeLen)
	}

	if !VerifyCode("salt", "student@mit.edu", code) {
		t.Error("valid code rejected")
	}
	if !VerifyCode("salt", "STUDENT@mit.edu ", code) {
		t.Error("code rejected for case variant of same email")
	}
	if VerifyCode("salt", "other@mit.edu", code) {
		t.Error("code accepted for different email")
	}
	if VerifyCode("other-salt", "student@mit.edu", code) {
		t.Error("code accepted under different salt")
	}
	if VerifyCode("salt", "student@mit.edu", code[:CodeLen-1]) {
		t.Error("truncated code accepted")
	}
}

func TestVerificationCodesDiffer(t *testing.T) {
	a, _ := GenerateCode("salt", "student@mit.edu")
	b, _ := GenerateCode("salt", "student@mit.edu")
	if a == b {
		t.Error("two codes for the same email should carry different filler")
	}
	if a[:codeCommitLen] != b[:codeCommitLen] {
		t.Error("codes for the same email should share the commitment prefix")
	}
}
