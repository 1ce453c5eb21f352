package cache

import (
	"context"

	"github.com/google/uuid"
)

// SettingCache caches project settings in front of the database.
type SettingCache interface {
	// GetSetting returns a cached value, hit is false on a miss.
	GetSetting(ctx context.Context, projectID uuid.UUID, key string) (value string, hit bool, err error)
	// SetSetting caches a value.
	SetSetting(ctx context.Context, projectID uuid.UUID, key, value string) error
	// DeleteSetting evicts a value.
	DeleteSetting(ctx context.Context, projectID uuid.UUID, key string) error
}
