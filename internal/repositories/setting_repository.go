package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// settingRepository implements setting repository operations
type settingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sql.DB) *settingRepository {
	return &settingRepository{
		db: db,
	}
}

// Upsert writes a key/value pair, overwriting any previous value.
// Last write wins; no history is kept.
func (r *settingRepository) Upsert(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	_, err := r.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	return nil
}

// Get returns the value for a key. A missing key is not an error: it reads
// as an empty value, with found=false so callers can tell the cases apart.
func (r *settingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM settings WHERE key = ? LIMIT 1`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting: %w", err)
	}

	return value, true, nil
}

// All returns every setting as a flat key/value map.
func (r *settingRepository) All(ctx context.Context) (map[string]string, error) {
	query := `SELECT key, value FROM settings`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return settings, nil
}
