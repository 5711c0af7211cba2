package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmohak/echo/internal/models"
)

const (
	UsernameMinLen = 5
	UsernameMaxLen = 50
	PasswordMinLen = 8
	PasswordMaxLen = 72 // bcrypt input bound
	BioMaxLen      = 160
	ReasonMaxLen   = 500
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateUsername enforces the account handle rules.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLen || len(username) > UsernameMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, UsernameMinLen, UsernameMaxLen)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username may only contain letters, digits, dots and underscores", ErrInvalidInput)
	}
	return nil
}

// ValidatePassword enforces password length bounds.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen || len(password) > PasswordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, PasswordMinLen, PasswordMaxLen)
	}
	return nil
}

// ValidateEmail checks shape only; institutional membership is checked
// separately against the college registry.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	return nil
}

// EmailDomain returns the lowercased domain part of an address.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// ValidatePostText enforces post body bounds. Empty text is allowed when the
// post carries media.
func ValidatePostText(text string, hasMedia bool) error {
	if len(text) > models.MaxPostTextLen {
		return fmt.Errorf("%w: post text exceeds %d characters", ErrInvalidInput, models.MaxPostTextLen)
	}
	if strings.TrimSpace(text) == "" && !hasMedia {
		return fmt.Errorf("%w: post must carry text or media", ErrInvalidInput)
	}
	return nil
}

// ValidatePostPrivacy accepts the three post scopes.
func ValidatePostPrivacy(privacy string) error {
	switch privacy {
	case models.PostPrivacyAnyone, models.PostPrivacyFollowed, models.PostPrivacyMentioned:
		return nil
	}
	return fmt.Errorf("%w: unknown post privacy %q", ErrInvalidInput, privacy)
}

// ValidateUserPrivacy accepts the two account scopes.
func ValidateUserPrivacy(privacy string) error {
	switch privacy {
	case models.PrivacyPublic, models.PrivacyPrivate:
		return nil
	}
	return fmt.Errorf("%w: unknown account privacy %q", ErrInvalidInput, privacy)
}
