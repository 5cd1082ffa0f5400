package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromMap(map[string]string{})
	require.NoError(t, err)
	require.Equal(t, AuthNone, cfg.AuthType)
	require.Equal(t, "session_id", cfg.SessionName)
	require.Equal(t, StoreMemory, cfg.SessionStore)
	require.Equal(t, BackendSQLite, cfg.SessionDBBackend)
	require.Equal(t, "0.0.0.0:5000", cfg.Addr())
	require.Zero(t, cfg.EffectiveDuration())
}

func TestSessionDuration(t *testing.T) {
	type testCase struct {
		raw      string
		expected time.Duration
	}
	for _, tc := range []testCase{
		{"60", time.Minute},
		{" 5 ", 5 * time.Second},
		{"abc", 0},
		{"-10", 0},
		{"1.5", 0},
		{"18446744074", time.Duration(maxSeconds) * time.Second},
		{"9223372036854775807", time.Duration(maxSeconds) * time.Second},
		{"99999999999999999999", time.Duration(maxSeconds) * time.Second},
		{"-99999999999999999999", 0},
	} {
		cfg, err := FromMap(map[string]string{"SESSION_DURATION": tc.raw, "AUTH_TYPE": AuthSessionExp})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.EffectiveDuration() != tc.expected {
			t.Fatalf("SESSION_DURATION=%q should be %v, got %v", tc.raw, tc.expected, cfg.EffectiveDuration())
		}
	}
}

func TestHugeDurationStaysPositive(t *testing.T) {
	cfg, err := FromMap(map[string]string{"SESSION_DURATION": "18446744074", "AUTH_TYPE": AuthSessionExp})
	require.NoError(t, err)
	require.Greater(t, cfg.EffectiveDuration(), 100*365*24*time.Hour)
}

func TestSessionAuthNeverExpires(t *testing.T) {
	cfg, err := FromMap(map[string]string{"SESSION_DURATION": "60", "AUTH_TYPE": AuthSession})
	require.NoError(t, err)
	require.Zero(t, cfg.EffectiveDuration())
	require.Equal(t, time.Minute, cfg.SessionDuration.Duration())
}

func TestInvalid(t *testing.T) {
	for _, vars := range []map[string]string{
		{"AUTH_TYPE": "jwt"},
		{"SESSION_STORE": "disk"},
		{"SESSION_DB_BACKEND": "mongo"},
		{"API_PORT": "0"},
	} {
		_, err := FromMap(vars)
		require.True(t, errors.Is(err, ErrInvalidConfig), "%v should be rejected, got %v", vars, err)
	}
	_, err := FromMap(map[string]string{"API_PORT": "http"})
	require.Error(t, err)
}

func TestPIIFields(t *testing.T) {
	cfg, err := FromMap(map[string]string{"PII_FIELDS": "email,ssn"})
	require.NoError(t, err)
	require.Equal(t, []string{"email", "ssn"}, cfg.PIIFields)
}

func TestLoadEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(file, []byte("AUTHBOX_TEST_VALUE=from-file\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("AUTHBOX_TEST_VALUE") })
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"), file)
	require.NoError(t, err)
	require.Equal(t, "from-file", os.Getenv("AUTHBOX_TEST_VALUE"))
}
