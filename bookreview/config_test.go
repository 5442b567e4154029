package bookreview

import "testing"

func TestGetEnv(t *testing.T) {
	if got := getEnv("BOOKREVIEW_UNSET_KEY", "fallback"); got != "fallback" {
		t.Fatalf("getEnv default = %q", got)
	}

	t.Setenv("BOOKREVIEW_UNSET_KEY", "value")
	if got := getEnv("BOOKREVIEW_UNSET_KEY", "fallback"); got != "value" {
		t.Fatalf("getEnv = %q", got)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("BOOKREVIEW_API_URL", "http://reviews.internal:9000")
	t.Setenv("BOOKREVIEW_SESSION_DB", "/tmp/session.db")
	t.Setenv("BOOKREVIEW_LOG_LEVEL", "debug")

	cfg := LoadConfig()
	if cfg.APIBaseURL != "http://reviews.internal:9000" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.SessionDBPath != "/tmp/session.db" {
		t.Fatalf("SessionDBPath = %q", cfg.SessionDBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestNewLoggerBadLevelFallsBack(t *testing.T) {
	logger := NewLogger("nonsense")
	if logger.GetLevel().String() != "warn" {
		t.Fatalf("level = %s, want warn", logger.GetLevel())
	}
}
