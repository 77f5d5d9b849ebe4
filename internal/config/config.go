// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	MemoryPath  string
	StudentCSV  string
	SessionTTL  time.Duration
	SweepEvery  time.Duration
	LLM         LLMConfig
	Router      RouterConfig
	Transcript  TranscriptConfig
}

// LLMConfig controls the language-model client.
type LLMConfig struct {
	AnthropicAPIKey string
	Model           string
	MaxTokens       int
}

// RouterConfig holds the fallback-heuristic knobs.
type RouterConfig struct {
	// FuzzyCutoff is the minimum similarity ratio for a knowledge-base hit.
	FuzzyCutoff float64
	// GenericMaxWords is the word count at or below which a reply is
	// treated as generic. Note it fires on short, specific answers too.
	GenericMaxWords int
}

// TranscriptConfig controls NDJSON chat transcript logging.
type TranscriptConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("TRANSCRIPT_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/concierge.db"),
		MemoryPath:  getEnv("MEMORY_PATH", "./data/memory.json"),
		StudentCSV:  getEnv("STUDENT_CSV_PATH", "./data/student_db.csv"),
		SessionTTL:  getEnvDuration("SESSION_TTL", 24*time.Hour),
		SweepEvery:  getEnvDuration("SESSION_SWEEP_INTERVAL", 15*time.Minute),
		LLM: LLMConfig{
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:           getEnv("LLM_MODEL", "claude-haiku-4-5-20251001"),
			MaxTokens:       getEnvInt("LLM_MAX_TOKENS", 1024),
		},
		Router: RouterConfig{
			FuzzyCutoff:     getEnvFloat("KB_FUZZY_CUTOFF", 0.6),
			GenericMaxWords: getEnvInt("GENERIC_MAX_WORDS", 20),
		},
		Transcript: TranscriptConfig{
			Enabled:       getEnvBool("TRANSCRIPT_ENABLED", true),
			Dir:           getEnv("TRANSCRIPT_DIR", "./data/logs/transcripts"),
			GlobalEnabled: getEnvBool("TRANSCRIPT_GLOBAL_ENABLED", false),
			GlobalPath:    getEnv("TRANSCRIPT_GLOBAL_PATH", "./data/logs/transcripts/all.ndjson"),
			QueueSize:     queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.MemoryPath == "" {
		return fmt.Errorf("MEMORY_PATH cannot be empty")
	}
	if c.Router.FuzzyCutoff <= 0 || c.Router.FuzzyCutoff > 1 {
		return fmt.Errorf("KB_FUZZY_CUTOFF must be in (0, 1]")
	}
	if c.Transcript.Dir == "" {
		return fmt.Errorf("TRANSCRIPT_DIR cannot be empty")
	}
	if c.Transcript.QueueSize <= 0 {
		return fmt.Errorf("TRANSCRIPT_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
