// ABOUTME: OpenAI-compatible text completion client used as the generation backend
// ABOUTME: Sends prompt plus sampling parameters and retries transient failures with backoff
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/slidechat/internal/models"
	"github.com/harper/slidechat/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is a completion-style model that supports echo
	DefaultModel = openai.GPT3Dot5TurboInstruct
	// DefaultTimeout bounds a single request
	DefaultTimeout = 60 * time.Second
)

// StopSequences keep the model from writing the next user turn itself
var StopSequences = []string{"\nUser:"}

// Generator turns a prompt into generated text
type Generator interface {
	Generate(ctx context.Context, prompt string, params models.GenerationParams) (string, error)
}

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey string
	// BaseURL points at an OpenAI-compatible server (vLLM, llama.cpp, Ollama).
	// Empty means api.openai.com.
	BaseURL    string
	Model      string
	Echo       bool
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		Model:      DefaultModel,
		Echo:       true,
		Timeout:    DefaultTimeout,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// OpenAIClient wraps the OpenAI completions API with retry logic
type OpenAIClient struct {
	client     *openai.Client
	model      string
	echo       bool
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, errors.New("OpenAI API key is required unless a base URL is set")
	}
	if config.Model == "" {
		return nil, errors.New("model name is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = config.BaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		model:      config.Model,
		echo:       config.Echo,
		timeout:    timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}, nil
}

// Model returns the model name sent with each request
func (c *OpenAIClient) Model() string {
	return c.model
}

// Generate requests a completion for prompt. With echo enabled the result
// starts with prompt; callers must still handle backends that ignore echo.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, params models.GenerationParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	req := openai.CompletionRequest{
		Model:       c.model,
		Prompt:      prompt,
		MaxTokens:   params.MaxNewTokens,
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
		Echo:        c.echo,
		Stop:        StopSequences,
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.Sleep(ctx, util.CalculateBackoff(c.retryDelay, attempt)); err != nil {
				return "", fmt.Errorf("generation cancelled: %w", err)
			}
		}

		text, err := c.complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)

		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	return "", fmt.Errorf("failed to generate completion after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *OpenAIClient) complete(ctx context.Context, req openai.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Text, nil
}

// retryable reports whether a failed request is worth repeating. Client
// errors other than rate limiting, and requests that cannot be encoded,
// will fail the same way again.
func retryable(err error) bool {
	var valueErr *json.UnsupportedValueError
	var typeErr *json.UnsupportedTypeError
	var marshalErr *json.MarshalerError
	if errors.As(err, &valueErr) || errors.As(err, &typeErr) || errors.As(err, &marshalErr) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	return true
}
