// ABOUTME: Preset is a named, reusable chat configuration
// ABOUTME: Stores model, system prompt, window size, and sampling parameters
package models

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var presetNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,63}$`)

// Preset represents a saved chat configuration
type Preset struct {
	Name         string           `json:"name" yaml:"name"`
	Model        string           `json:"model" yaml:"model"`
	SystemPrompt string           `json:"system_prompt" yaml:"system_prompt"`
	MaxTurns     int              `json:"max_turns" yaml:"max_turns"`
	Params       GenerationParams `json:"params" yaml:"params"`
	CreatedAt    time.Time        `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time        `json:"updated_at" yaml:"-"`
}

// Validate checks the preset can be used to start a chat session
func (p *Preset) Validate() error {
	if !presetNamePattern.MatchString(p.Name) {
		return fmt.Errorf("invalid preset name %q: use letters, digits, '.', '_' or '-'", p.Name)
	}
	if p.Model == "" {
		return errors.New("preset model cannot be empty")
	}
	if p.MaxTurns <= 0 {
		return fmt.Errorf("preset max turns must be positive, got %d", p.MaxTurns)
	}
	return p.Params.Validate()
}

// EncodePresetYAML renders p as a portable YAML document
func EncodePresetYAML(p *Preset) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding preset %s: %w", p.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding preset %s: %w", p.Name, err)
	}
	return buf.Bytes(), nil
}

// DecodePresetYAML parses a preset document. Unknown keys are rejected and
// missing sampling fields fall back to DefaultGenerationParams.
func DecodePresetYAML(data []byte) (*Preset, error) {
	p := &Preset{Params: DefaultGenerationParams()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
