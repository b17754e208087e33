package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     string
		infoShown bool
		warnShown bool
	}{
		{level: "debug", infoShown: true, warnShown: true},
		{level: "info", infoShown: true, warnShown: true},
		{level: "WARN", infoShown: false, warnShown: true},
		{level: "warning", infoShown: false, warnShown: true},
		{level: "error", infoShown: false, warnShown: false},
		{level: "bogus", infoShown: true, warnShown: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := NewWithWriter(&buf, tt.level)

			l.Info("info_event")
			assert.Equal(t, tt.infoShown, bytes.Contains(buf.Bytes(), []byte("info_event")))

			l.Warn("warn_event")
			assert.Equal(t, tt.warnShown, bytes.Contains(buf.Bytes(), []byte("warn_event")))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info").With("request_id", "r-1")
	ctx := IntoContext(context.Background(), l)

	FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "r-1", line["request_id"])
}

func TestFromContext_Default(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestRedactsSensitiveKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")
	l.Info("login_attempt", "email", "a@example.com", "password", "hunter22", "Token", "eyJhbGciOi", slog.Group("req", "authorization", "Bearer abc"))

	out := buf.String()
	assert.NotContains(t, out, "hunter22")
	assert.NotContains(t, out, "eyJhbGciOi")
	assert.NotContains(t, out, "Bearer abc")
	assert.Contains(t, out, "a@example.com")
	assert.Contains(t, out, redacted)
}
