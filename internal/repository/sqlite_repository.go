package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetSetting(ctx context.Context, key string) (string, error) {
	query := "SELECT value FROM settings WHERE key = ?"
	var value string
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("could not get setting %q: %w", key, err)
	}
	return value, nil
}

func (r *sqliteRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("could not save setting %q: %w", key, err)
	}
	return nil
}

// DeleteSetting is idempotent: deleting a missing key succeeds.
func (r *sqliteRepository) DeleteSetting(ctx context.Context, key string) error {
	query := "DELETE FROM settings WHERE key = ?"
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("could not delete setting %q: %w", key, err)
	}
	return nil
}
