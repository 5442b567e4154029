package bookreview

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config carries the few settings the client needs. Values come from the
// environment, optionally seeded from a .env file in the working directory.
type Config struct {
	APIBaseURL    string
	SessionDBPath string
	LogLevel      string
}

// LoadConfig reads the environment with sensible defaults for local use.
func LoadConfig() Config {
	godotenv.Load()

	return Config{
		APIBaseURL:    getEnv("BOOKREVIEW_API_URL", "http://localhost:8000"),
		SessionDBPath: getEnv("BOOKREVIEW_SESSION_DB", "session.db"),
		LogLevel:      getEnv("BOOKREVIEW_LOG_LEVEL", "warn"),
	}
}

// NewLogger builds the console logger used across the client. Unknown
// levels fall back to warn so a typo never silences failures.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
