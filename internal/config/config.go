package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by SPACE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("SPACE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the environment may already be populated.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// AdminAPIKey is the bearer token required for every mutating endpoint.
// When empty, mutations over HTTP are disabled.
func AdminAPIKey() string {
	return os.Getenv("ADMIN_API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RecomputeMode is "sync" (recompute inside the mutating request) or "async"
// (debounced background recompute). Defaults to "sync".
func RecomputeMode() string {
	mode := strings.ToLower(os.Getenv("RECOMPUTE_MODE"))
	if mode != "async" {
		return "sync"
	}
	return mode
}

// RecomputeDebounce is the quiet period the async scheduler waits for.
// Defaults to 250ms.
func RecomputeDebounce() time.Duration {
	d, err := time.ParseDuration(os.Getenv("RECOMPUTE_DEBOUNCE"))
	if err != nil || d < 0 {
		return 250 * time.Millisecond
	}
	return d
}

// RecomputeEligibility names the theorem eligibility policy. Parsed by the
// service package.
func RecomputeEligibility() string {
	return os.Getenv("RECOMPUTE_ELIGIBILITY")
}

// AutoMigrate reports whether the server applies migrations on start.
// Defaults to true.
func AutoMigrate() bool {
	v, err := strconv.ParseBool(os.Getenv("AUTO_MIGRATE"))
	if err != nil {
		return true
	}
	return v
}
