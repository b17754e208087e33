package service

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/userauth/internal/apperr"
	"github.com/Skotchmaster/userauth/internal/hash"
	"github.com/Skotchmaster/userauth/internal/uploads"
)

const (
	maxNameRunes      = 50
	maxEmailBytes     = 255
	minPasswordLength = 6
)

func validateName(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	n := utf8.RuneCountInString(v)
	if n == 0 {
		return "", apperr.Invalid(field, "must not be empty")
	}
	if n > maxNameRunes {
		return "", apperr.Invalid(field, "must be at most 50 characters")
	}
	return v, nil
}

// validateEmail accepts a bare RFC 5322 address; display names and angle brackets are rejected.
func validateEmail(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperr.Invalid("email", "must not be empty")
	}
	if len(v) > maxEmailBytes {
		return "", apperr.Invalid("email", "is too long")
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || addr.Name != "" {
		return "", apperr.Invalid("email", "must be a valid email address")
	}
	return v, nil
}

func validatePassword(v string) error {
	if len(v) < minPasswordLength {
		return apperr.Invalid("password", "must be at least 6 characters")
	}
	if len(v) > hash.MaxPasswordBytes {
		return apperr.Invalid("password", "must be at most 72 bytes")
	}
	return nil
}

func validateProfilePicture(v string) error {
	if !uploads.IsStoredPath(v) {
		return apperr.Invalid("profile_picture", "must reference an uploaded image")
	}
	return nil
}
