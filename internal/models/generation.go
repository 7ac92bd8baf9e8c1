// ABOUTME: Sampling parameters passed to the text generation backend
// ABOUTME: Shared by the LLM client, presets, and configuration validation
package models

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when sampling parameters are out of range
var ErrInvalidParams = errors.New("invalid generation parameters")

// GenerationParams controls a single generation call
type GenerationParams struct {
	MaxNewTokens int     `json:"max_new_tokens" yaml:"max_new_tokens"`
	Temperature  float64 `json:"temperature" yaml:"temperature"`
	TopP         float64 `json:"top_p" yaml:"top_p"`
}

// DefaultGenerationParams matches the sampling used by the chat loop
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		MaxNewTokens: 100,
		Temperature:  0.7,
		TopP:         0.9,
	}
}

// Validate checks max tokens > 0, temperature in (0,2] and top-p in (0,1]
func (p GenerationParams) Validate() error {
	if p.MaxNewTokens <= 0 {
		return fmt.Errorf("%w: max new tokens must be positive, got %d", ErrInvalidParams, p.MaxNewTokens)
	}
	if !(p.Temperature > 0 && p.Temperature <= 2) {
		return fmt.Errorf("%w: temperature must be in (0,2], got %g", ErrInvalidParams, p.Temperature)
	}
	if !(p.TopP > 0 && p.TopP <= 1) {
		return fmt.Errorf("%w: top-p must be in (0,1], got %g", ErrInvalidParams, p.TopP)
	}
	return nil
}
