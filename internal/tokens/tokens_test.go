package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestService_IssueAndValidate(t *testing.T) {
	t.Parallel()

	svc := NewService(testSecret)
	before := time.Now()

	token, err := svc.Issue("alice@example.com", "User")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "User", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, before.Add(TTL), claims.ExpiresAt.Time, 2*time.Second)
}

func TestService_ExpiredToken(t *testing.T) {
	t.Parallel()

	issuer := NewService(testSecret)
	issuer.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	token, err := issuer.Issue("bob@example.com", "Admin")
	require.NoError(t, err)

	_, err = NewService(testSecret).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidUntilExpiry(t *testing.T) {
	t.Parallel()

	svc := NewService(testSecret)
	start := time.Now()
	token, err := svc.Issue("carol@example.com", "User")
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(TTL - time.Minute) }
	_, err = svc.Validate(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(TTL + time.Minute) }
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_RejectsForgedAndMalformed(t *testing.T) {
	t.Parallel()

	svc := NewService(testSecret)
	valid, err := svc.Issue("dave@example.com", "User")
	require.NoError(t, err)

	otherKey, err := NewService([]byte("other-secret")).Issue("dave@example.com", "Admin")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "dave@example.com", "role": "User",
	}).SignedString(testSecret)
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "User", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "dave@example.com", "role": "User", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: otherKey},
		{name: "missing exp", token: noExp},
		{name: "missing sub", token: noSub},
		{name: "other algorithm", token: hs512},
		{name: "tampered payload", token: tampered},
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := svc.Validate(tt.token)
			assert.Nil(t, claims)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}
