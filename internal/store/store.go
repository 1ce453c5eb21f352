package store

import (
	"context"

	"github.com/google/uuid"
)

// Keys of the settings owned by the config engine.
const (
	KeyConfig        = "shazam-config"
	KeyConfigBackups = "shazam-config-backups"
	KeyJSEditors     = "shazam-js-editors"
)

// Settings is the string valued key/value persistence of a single project.
type Settings interface {
	// GetSetting returns the value stored under key, ok is false when the key is absent.
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)
	// SetSetting stores value under key.
	SetSetting(ctx context.Context, key, value string) error
}

// Store is a SettingStore that owns its schema.
type Store interface {
	SettingStore
	Migrate() error
}

type SettingStore interface {
	// GetSetting retrieves a project setting.
	GetSetting(ctx context.Context, projectID uuid.UUID, key string) (string, bool, error)
	// SetSetting creates or overwrites a project setting.
	SetSetting(ctx context.Context, projectID uuid.UUID, key, value string) error
	// ListProjects returns the ids of all projects holding at least one setting.
	ListProjects(ctx context.Context) ([]uuid.UUID, error)
}
