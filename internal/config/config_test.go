package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
		{"uses default for zero", "TEST_INT_4", "0", 10, 10},
		{"uses default for negative", "TEST_INT_5", "-3", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"SESSION_SECRET":       "secret",
		"STORAGE_TYPE":         "",
		"CARDS_BATCH_SIZE":     "",
		"DECK_STORE_KEY":       "",
		"SESSION_IDLE_MINUTES": "",
	})

	cfg := Load()
	if cfg.StorageType != StorageFile {
		t.Errorf("Expected file storage, got %q", cfg.StorageType)
	}
	if cfg.CardsBatchSize != 60 {
		t.Errorf("Expected batch size 60, got %d", cfg.CardsBatchSize)
	}
	if cfg.DeckStoreKey != "decks" {
		t.Errorf("Expected deck store key 'decks', got %q", cfg.DeckStoreKey)
	}
	if cfg.SessionIdleMinutes != 30 {
		t.Errorf("Expected 30 idle minutes, got %d", cfg.SessionIdleMinutes)
	}
	if cfg.MaxUploadBytes() != int64(cfg.MaxUploadMB)*1024*1024 {
		t.Errorf("Unexpected upload limit %d", cfg.MaxUploadBytes())
	}
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	setEnv(t, map[string]string{
		"SESSION_SECRET": "secret",
		"STORAGE_TYPE":   "postgres",
		"DATABASE_URL":   "",
	})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic without DATABASE_URL")
		}
	}()
	Load()
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	setEnv(t, map[string]string{
		"SESSION_SECRET": "secret",
		"STORAGE_TYPE":   "s3",
	})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for unknown storage type")
		}
	}()
	Load()
}
