// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing, validation, and preset overrides
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/slidechat/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Model != "gpt-3.5-turbo-instruct" {
		t.Errorf("Model = %s, want gpt-3.5-turbo-instruct", cfg.Model)
	}
	if !cfg.Echo {
		t.Error("Echo = false, want true")
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.MaxTurns != 3 {
		t.Errorf("MaxTurns = %d, want 3", cfg.MaxTurns)
	}
	if cfg.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("SystemPrompt = %q", cfg.SystemPrompt)
	}
	if cfg.Params.MaxNewTokens != 100 {
		t.Errorf("MaxNewTokens = %d, want 100", cfg.Params.MaxNewTokens)
	}
	if cfg.Params.Temperature != 0.7 {
		t.Errorf("Temperature = %f, want 0.7", cfg.Params.Temperature)
	}
	if cfg.Params.TopP != 0.9 {
		t.Errorf("TopP = %f, want 0.9", cfg.Params.TopP)
	}
	if cfg.WrapWidth != 90 {
		t.Errorf("WrapWidth = %d, want 90", cfg.WrapWidth)
	}
	if cfg.OpenAIKey != "" || cfg.BaseURL != "" {
		t.Error("credentials should be empty by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("OPENAI_BASE_URL", "http://localhost:8000/v1")
	os.Setenv("SLIDECHAT_MODEL", "distilgpt2")
	os.Setenv("SLIDECHAT_ECHO", "false")
	os.Setenv("OPENAI_TIMEOUT", "10s")
	os.Setenv("OPENAI_MAX_RETRIES", "5")
	os.Setenv("OPENAI_RETRY_DELAY", "3s")
	os.Setenv("SLIDECHAT_MAX_TURNS", "6")
	os.Setenv("SLIDECHAT_SYSTEM_PROMPT", "Be terse.")
	os.Setenv("SLIDECHAT_MAX_TOKENS", "256")
	os.Setenv("SLIDECHAT_TEMPERATURE", "1.2")
	os.Setenv("SLIDECHAT_TOP_P", "0.5")
	os.Setenv("SLIDECHAT_WRAP_WIDTH", "0")
	os.Setenv("SLIDECHAT_DATA_DIR", "/tmp/slidechat-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.BaseURL != "http://localhost:8000/v1" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.Model != "distilgpt2" {
		t.Errorf("Model = %s, want distilgpt2", cfg.Model)
	}
	if cfg.Echo {
		t.Error("Echo = true, want false")
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if cfg.MaxTurns != 6 {
		t.Errorf("MaxTurns = %d, want 6", cfg.MaxTurns)
	}
	if cfg.SystemPrompt != "Be terse." {
		t.Errorf("SystemPrompt = %q", cfg.SystemPrompt)
	}
	if cfg.Params.MaxNewTokens != 256 {
		t.Errorf("MaxNewTokens = %d, want 256", cfg.Params.MaxNewTokens)
	}
	if cfg.Params.Temperature != 1.2 {
		t.Errorf("Temperature = %f, want 1.2", cfg.Params.Temperature)
	}
	if cfg.Params.TopP != 0.5 {
		t.Errorf("TopP = %f, want 0.5", cfg.Params.TopP)
	}
	if cfg.WrapWidth != 0 {
		t.Errorf("WrapWidth = %d, want 0", cfg.WrapWidth)
	}
	if cfg.DataDir != "/tmp/slidechat-test" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero max turns", "SLIDECHAT_MAX_TURNS", "0"},
		{"negative max turns", "SLIDECHAT_MAX_TURNS", "-1"},
		{"zero max tokens", "SLIDECHAT_MAX_TOKENS", "0"},
		{"temperature too high", "SLIDECHAT_TEMPERATURE", "2.5"},
		{"top-p too high", "SLIDECHAT_TOP_P", "1.5"},
		{"too many retries", "OPENAI_MAX_RETRIES", "11"},
		{"negative wrap", "SLIDECHAT_WRAP_WIDTH", "-1"},
		{"temperature NaN", "SLIDECHAT_TEMPERATURE", "NaN"},
		{"top-p NaN", "SLIDECHAT_TOP_P", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv(tt.key, tt.value)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() should not validate, got %v", err)
			}
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() should fail for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireCredentials(); err == nil {
		t.Error("RequireCredentials() should fail without key or base URL")
	}

	cfg.BaseURL = "http://localhost:8080/v1"
	if err := cfg.RequireCredentials(); err != nil {
		t.Errorf("RequireCredentials() with base URL error = %v", err)
	}

	cfg = &Config{OpenAIKey: "k"}
	if err := cfg.RequireCredentials(); err != nil {
		t.Errorf("RequireCredentials() with key error = %v", err)
	}
}

func TestApplyPreset(t *testing.T) {
	os.Clearenv()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	cfg.ApplyPreset(&models.Preset{
		Name:         "tiny",
		Model:        "distilgpt2",
		SystemPrompt: "",
		MaxTurns:     1,
		Params:       models.GenerationParams{MaxNewTokens: 20, Temperature: 1, TopP: 1},
	})

	if cfg.Model != "distilgpt2" || cfg.MaxTurns != 1 || cfg.SystemPrompt != "" {
		t.Errorf("preset not applied: %+v", cfg)
	}
	if cfg.Params.MaxNewTokens != 20 {
		t.Errorf("MaxNewTokens = %d, want 20", cfg.Params.MaxNewTokens)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after preset error = %v", err)
	}
}

func TestDefaultDataDir(t *testing.T) {
	os.Clearenv()
	os.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultDataDir(); got != filepath.Join("/data", "slidechat") {
		t.Errorf("DefaultDataDir() = %s", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
