package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evermoments/backend/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Timestamps are stored as RFC 3339 text, matching the rest of the system.
const timeLayout = time.RFC3339

// momentRepository implements moment repository operations
type momentRepository struct {
	db *sql.DB
}

// NewMomentRepository creates a new moment repository
func NewMomentRepository(db *sql.DB) *momentRepository {
	return &momentRepository{
		db: db,
	}
}

// Insert stores a new moment and fills in its assigned id.
func (r *momentRepository) Insert(ctx context.Context, m *models.Moment) error {
	query := `
		INSERT INTO moments (title, description, category, section, caption, image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		m.Title,
		m.Description,
		m.Category,
		m.Section,
		m.Caption,
		m.Image,
		m.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert moment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	m.ID = id

	return nil
}

// List returns all moments, newest first.
func (r *momentRepository) List(ctx context.Context) ([]models.Moment, error) {
	query := `
		SELECT id, title, description, category, section, caption, image, created_at
		FROM moments
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list moments: %w", err)
	}
	defer rows.Close()

	moments := []models.Moment{}
	for rows.Next() {
		m, err := scanMoment(rows)
		if err != nil {
			return nil, err
		}
		moments = append(moments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate moments: %w", err)
	}

	return moments, nil
}

// GetByID retrieves one moment, or ErrNotFound.
func (r *momentRepository) GetByID(ctx context.Context, id int64) (*models.Moment, error) {
	query := `
		SELECT id, title, description, category, section, caption, image, created_at
		FROM moments
		WHERE id = ?
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query, id)
	m, err := scanMoment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get moment by id: %w", err)
	}

	return &m, nil
}

// Update rewrites every mutable field of a moment in a single statement.
// The caller merges partial updates into the full row first.
func (r *momentRepository) Update(ctx context.Context, m *models.Moment) error {
	query := `
		UPDATE moments
		SET title = ?, description = ?, category = ?, section = ?, caption = ?, image = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		m.Title,
		m.Description,
		m.Category,
		m.Section,
		m.Caption,
		m.Image,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update moment: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes one moment row. The stored bytes are left in place.
func (r *momentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM moments WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete moment: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMoment(s scanner) (models.Moment, error) {
	var m models.Moment
	var createdAt string

	err := s.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Category,
		&m.Section,
		&m.Caption,
		&m.Image,
		&createdAt,
	)
	if err != nil {
		return models.Moment{}, err
	}

	m.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Moment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return m, nil
}
