package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/userauth/internal/config"
)

func testAdmin() config.AdminAccount {
	return config.AdminAccount{
		Firstname: "Root",
		Lastname:  "Admin",
		Email:     "admin@example.com",
		Password:  "admin-password",
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	good := []string{"a@example.com", "first.last+tag@sub.example.org", " padded@example.com "}
	for _, v := range good {
		_, err := validateEmail(v)
		assert.NoError(t, err, v)
	}

	bad := []string{"", "plain", "@example.com", "a@", "A <a@example.com>", "<a@example.com>", strings.Repeat("a", 250) + "@example.com"}
	for _, v := range bad {
		_, err := validateEmail(v)
		assert.Error(t, err, v)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validatePassword("123456"))
	assert.NoError(t, validatePassword(strings.Repeat("x", 72)))
	assert.Error(t, validatePassword("12345"))
	assert.Error(t, validatePassword(strings.Repeat("x", 73)))
	// 24 three-byte runes = 72 bytes, one more is over the limit
	assert.NoError(t, validatePassword(strings.Repeat("€", 24)))
	assert.Error(t, validatePassword(strings.Repeat("€", 25)))
}
