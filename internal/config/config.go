// ABOUTME: Centralized configuration for the slidechat CLI
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/harper/slidechat/internal/models"
)

// DefaultSystemPrompt is the instruction line placed before the history
const DefaultSystemPrompt = "You are a helpful AI assistant. Keep your responses short and clear."

// Config holds all configuration for a chat session
type Config struct {
	// OpenAI settings
	OpenAIKey  string
	BaseURL    string
	Model      string
	Echo       bool
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Conversation settings
	MaxTurns     int
	SystemPrompt string
	Params       models.GenerationParams
	WrapWidth    int

	// Storage
	DataDir string
}

// Load reads configuration from environment variables. It does not
// validate: presets and flags may still override bad values, so callers
// run Validate once all overrides are applied.
func Load() (*Config, error) {
	defaults := models.DefaultGenerationParams()
	cfg := &Config{
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		BaseURL:      os.Getenv("OPENAI_BASE_URL"),
		Model:        getEnv("SLIDECHAT_MODEL", "gpt-3.5-turbo-instruct"),
		Echo:         getEnvBool("SLIDECHAT_ECHO", true),
		Timeout:      getEnvDuration("OPENAI_TIMEOUT", 60*time.Second),
		MaxRetries:   getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:   getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		MaxTurns:     getEnvInt("SLIDECHAT_MAX_TURNS", 3),
		SystemPrompt: getEnv("SLIDECHAT_SYSTEM_PROMPT", DefaultSystemPrompt),
		Params: models.GenerationParams{
			MaxNewTokens: getEnvInt("SLIDECHAT_MAX_TOKENS", defaults.MaxNewTokens),
			Temperature:  getEnvFloat("SLIDECHAT_TEMPERATURE", defaults.Temperature),
			TopP:         getEnvFloat("SLIDECHAT_TOP_P", defaults.TopP),
		},
		WrapWidth: getEnvInt("SLIDECHAT_WRAP_WIDTH", 90),
		DataDir:   getEnv("SLIDECHAT_DATA_DIR", DefaultDataDir()),
	}

	return cfg, nil
}

// Validate checks the settings a chat session depends on
func (c *Config) Validate() error {
	if c.MaxTurns <= 0 {
		return fmt.Errorf("SLIDECHAT_MAX_TURNS must be positive, got %d", c.MaxTurns)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.WrapWidth < 0 {
		return fmt.Errorf("SLIDECHAT_WRAP_WIDTH must not be negative, got %d", c.WrapWidth)
	}
	if c.Model == "" {
		return errors.New("SLIDECHAT_MODEL must not be empty")
	}
	return c.Params.Validate()
}

// RequireCredentials checks that a generation backend is reachable in principle
func (c *Config) RequireCredentials() error {
	if c.OpenAIKey == "" && c.BaseURL == "" {
		return errors.New("OPENAI_API_KEY is required unless OPENAI_BASE_URL points at a local server")
	}
	return nil
}

// ApplyPreset overrides model, system prompt, window size and sampling with a saved preset
func (c *Config) ApplyPreset(p *models.Preset) {
	c.Model = p.Model
	c.SystemPrompt = p.SystemPrompt
	c.MaxTurns = p.MaxTurns
	c.Params = p.Params
}

// DefaultDataDir returns the default data directory following the XDG spec
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "slidechat")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "slidechat")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
