package repository

import (
	"context"
)

// Repository defines the interface for local console storage.
// Values are plain strings keyed by setting name.
type Repository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}
