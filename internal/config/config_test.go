package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":    "postgres://u:p@localhost:5432/auth?sslmode=disable",
		"PORT":            "3000",
		"FRONTEND_URL":    "http://localhost:5173",
		"JWT_SECRET":      "0123456789abcdef0123456789abcdef",
		"ADMIN_FIRSTNAME": "Ada",
		"ADMIN_LASTNAME":  "Lovelace",
		"ADMIN_EMAIL":     "admin@example.com",
		"ADMIN_PASSWORD":  "admin-password",
	}
}

func TestParse_DefaultsAndRequired(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(env.Options{Environment: baseEnv()})
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "user_events", cfg.KafkaTopic)
	assert.Equal(t, "users", cfg.ESIndex)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestParse_MissingRequired(t *testing.T) {
	t.Parallel()

	for _, key := range []string{
		"DATABASE_URL", "PORT", "FRONTEND_URL", "JWT_SECRET",
		"ADMIN_FIRSTNAME", "ADMIN_LASTNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		key := key
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			vars := baseEnv()
			delete(vars, key)
			_, err := Parse(env.Options{Environment: vars})
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)

			vars = baseEnv()
			vars[key] = ""
			_, err = Parse(env.Options{Environment: vars})
			require.Error(t, err)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "port not a number", key: "PORT", val: "http"},
		{name: "port out of range", key: "PORT", val: "70000"},
		{name: "zero upload limit", key: "MAX_UPLOAD_BYTES", val: "0"},
		{name: "bad timeout", key: "REQUEST_TIMEOUT", val: "soon"},
		{name: "zero pool", key: "DB_MAX_OPEN_CONNS", val: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vars := baseEnv()
			vars[tt.key] = tt.val
			_, err := Parse(env.Options{Environment: vars})
			assert.Error(t, err)
		})
	}
}

func TestParse_KafkaBrokersCSV(t *testing.T) {
	t.Parallel()

	vars := baseEnv()
	vars["KAFKA_BROKERS"] = "kafka-1:9092,kafka-2:9092"
	cfg, err := Parse(env.Options{Environment: vars})
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestConfig_LogValueRedactsSecrets(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(env.Options{Environment: baseEnv()})
	require.NoError(t, err)

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("config", "cfg", cfg)

	out := buf.String()
	assert.Contains(t, out, "admin@example.com")
	assert.NotContains(t, out, cfg.JWTSecret)
	assert.NotContains(t, out, cfg.Admin.Password)
	assert.NotContains(t, out, "u:p@localhost")
}
