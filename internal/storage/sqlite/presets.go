// ABOUTME: Preset storage operations for SQLite
// ABOUTME: Upsert, lookup, listing, and deletion of named chat presets
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harper/slidechat/internal/models"
)

// ErrPresetNotFound is returned when no preset has the requested name
var ErrPresetNotFound = errors.New("preset not found")

// PresetStore handles preset persistence
type PresetStore struct {
	db *DB
}

// NewPresetStore creates a new PresetStore
func NewPresetStore(db *DB) *PresetStore {
	return &PresetStore{db: db}
}

// Save validates and upserts a preset. CreatedAt is kept on update.
func (s *PresetStore) Save(p *models.Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO presets (name, model, system_prompt, max_turns, max_new_tokens, temperature, top_p, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			model = excluded.model,
			system_prompt = excluded.system_prompt,
			max_turns = excluded.max_turns,
			max_new_tokens = excluded.max_new_tokens,
			temperature = excluded.temperature,
			top_p = excluded.top_p,
			updated_at = excluded.updated_at
	`, p.Name, p.Model, p.SystemPrompt, p.MaxTurns,
		p.Params.MaxNewTokens, p.Params.Temperature, p.Params.TopP,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving preset %s: %w", p.Name, err)
	}

	// An update keeps the stored created_at; reflect it back to the caller
	if err := s.db.QueryRow(`SELECT created_at FROM presets WHERE name = ?`, p.Name).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("reading back preset %s: %w", p.Name, err)
	}
	return nil
}

// Get retrieves a preset by name
func (s *PresetStore) Get(name string) (*models.Preset, error) {
	row := s.db.QueryRow(`
		SELECT name, model, system_prompt, max_turns, max_new_tokens, temperature, top_p, created_at, updated_at
		FROM presets
		WHERE name = ?
	`, name)

	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading preset %s: %w", name, err)
	}
	return p, nil
}

// List returns all presets ordered by name
func (s *PresetStore) List() ([]*models.Preset, error) {
	rows, err := s.db.Query(`
		SELECT name, model, system_prompt, max_turns, max_new_tokens, temperature, top_p, created_at, updated_at
		FROM presets
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var presets []*models.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// Delete removes a preset by name
func (s *PresetStore) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting preset %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPreset(row scanner) (*models.Preset, error) {
	var p models.Preset
	err := row.Scan(
		&p.Name, &p.Model, &p.SystemPrompt, &p.MaxTurns,
		&p.Params.MaxNewTokens, &p.Params.Temperature, &p.Params.TopP,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
