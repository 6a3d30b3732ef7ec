package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime configuration of the client.
type Config struct {
	APIBaseURL       string
	SessionFile      string
	RedisURL         string
	LogLevel         string
	APITimeout       time.Duration
	ApplyRateLimit   int
	ApplyRateWindow  time.Duration
	GuardStudentPath string
	GuardRecruitPath string
	GuardAdminPath   string
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:       strings.TrimSpace(os.Getenv("API_BASE_URL")),
		SessionFile:      envOr("SESSION_FILE", defaultSessionFile()),
		RedisURL:         envOr("REDIS_URL", ""),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		APITimeout:       durationOr("API_TIMEOUT", 10*time.Second),
		ApplyRateLimit:   intOr("APPLY_RATE_LIMIT_PER_MIN", 3),
		ApplyRateWindow:  durationOr("APPLY_RATE_WINDOW", time.Minute),
		GuardStudentPath: envOr("STUDENT_SIGNIN_PATH", "/login/student"),
		GuardRecruitPath: envOr("RECRUITER_SIGNIN_PATH", "/login/recruiter"),
		GuardAdminPath:   envOr("ADMIN_SIGNIN_PATH", "/login/admin"),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("missing required env vars: API_BASE_URL")
	}
	if cfg.ApplyRateLimit <= 0 {
		return Config{}, fmt.Errorf("rate limit values must be positive: APPLY_RATE_LIMIT_PER_MIN")
	}

	return cfg, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".careernest", "session.json")
	}
	return filepath.Join(home, ".careernest", "session.json")
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func intOr(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
