package config

import (
	"os"
	"strconv"
	"time"

	infraconfig "otcrates-service/internal/infrastructure/config"
)

// APIKeyEnvVars are checked in order; the first non-empty value wins.
var APIKeyEnvVars = []string{"VITE_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"}

type Config struct {
	// Common
	Env       string
	LogLevel  string
	LogFile   string
	LogMaxAge int
	// HTTP
	Port            string
	ShutdownTimeout time.Duration
	DisplayZone     string
	// Upstream completion service
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	FetchTimeout  time.Duration
	// Rate sources
	SlabURL    string
	GrpURL     string
	Instrument string
	RateMin    string
	RateMax    string
	// Scheduler
	RefreshInterval  time.Duration
	RefreshPerMinute int
	// Redis (manual refresh idempotency)
	IdempotencyBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisTTL           time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, def time.Duration) time.Duration {
	defMS := int(def / time.Millisecond)
	ms := atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
		LogMaxAge:          atoiDef(getEnv("LOG_MAX_AGE_DAYS", "7"), 7),
		RefreshPerMinute:   atoiDef(getEnv("MANUAL_REFRESH_PER_MIN", "6"), 6),
		Port:               getEnv("PORT", infraconfig.DefaultHTTPPort),
		ShutdownTimeout:    durMS("SHUTDOWN_TIMEOUT_MS", infraconfig.DefaultShutdownTimeout),
		DisplayZone:        getEnv("DISPLAY_TZ", infraconfig.DefaultDisplayZone),
		Provider:           getEnv("PROVIDER", "gemini"),
		GeminiAPIKey:       firstEnv(APIKeyEnvVars...),
		GeminiModel:        getEnv("GEMINI_MODEL", infraconfig.DefaultGeminiModel),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", ""),
		FetchTimeout:       durMS("FETCH_TIMEOUT_MS", infraconfig.DefaultFetchTimeout),
		SlabURL:            getEnv("SLAB_URL", infraconfig.DefaultSlabURL),
		GrpURL:             getEnv("GRP_URL", infraconfig.DefaultGrpURL),
		Instrument:         getEnv("INSTRUMENT", infraconfig.DefaultInstrument),
		RateMin:            getEnv("RATE_MIN", infraconfig.DefaultRateMin),
		RateMax:            getEnv("RATE_MAX", infraconfig.DefaultRateMax),
		RefreshInterval:    durMS("REFRESH_INTERVAL_MS", infraconfig.DefaultRefreshInterval),
		IdempotencyBackend: getEnv("IDEMPOTENCY_BACKEND", "redis"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:           durMS("IDEMPOTENCY_TTL_MS", infraconfig.DefaultIdempotencyTTL),
	}
}
