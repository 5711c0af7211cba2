package services

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with separators", "alice._b99", false},
		{"too short", "abcd", true},
		{"too long", strings.Repeat("a", 51), true},
		{"max length ok", strings.Repeat("a", 50), false},
		{"space rejected", "alice b", true},
		{"hyphen rejected", "alice-b", true},
		{"unicode rejected", "alicé!", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "student@mit.edu", false},
		{"subdomain", "a.b@cs.stanford.edu", false},
		{"no at sign", "student.mit.edu", true},
		{"no tld", "student@mit", true},
		{"spaces", "stu dent@mit.edu", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"student@MIT.edu", "mit.edu"},
		{"a@b@cs.edu", "cs.edu"},
		{"noat", ""},
		{"x@harvard.edu  ", "harvard.edu"},
	}
	for _, tt := range tests {
		if got := EmailDomain(tt.email); got != tt.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestValidatePostText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		hasMedia bool
		wantErr  bool
	}{
		{"plain text", "hello campus", false, false},
		{"empty with media", "", true, false},
		{"empty without media", "", false, true},
		{"whitespace only", "   \n", false, true},
		{"at limit", strings.Repeat("x", 500), false, false},
		{"over limit", strings.Repeat("x", 501), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostText(tt.text, tt.hasMedia)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePostText(%q, %v) error = %v, wantErr %v", tt.text, tt.hasMedia, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePrivacy(t *testing.T) {
	if err := ValidatePostPrivacy("ANYONE"); err != nil {
		t.Errorf("ANYONE rejected: %v", err)
	}
	if err := ValidatePostPrivacy("FRIENDS"); err == nil {
		t.Error("unknown post privacy accepted")
	}
	if err := ValidateUserPrivacy("PRIVATE"); err != nil {
		t.Errorf("PRIVATE rejected: %v", err)
	}
	if err := ValidateUserPrivacy("ANYONE"); err == nil {
		t.Error("post scope accepted as account scope")
	}
}
