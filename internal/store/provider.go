package store

import (
	"context"

	"github.com/google/uuid"
)

// SettingsProvider hands out the settings of one project.
type SettingsProvider interface {
	Provide(projectID uuid.UUID) (Settings, error)
}

// DefaultProvider scopes a shared store to the requested project.
type DefaultProvider struct {
	store SettingStore
}

func NewDefaultProvider(store SettingStore) *DefaultProvider {
	return &DefaultProvider{store: store}
}

func (p *DefaultProvider) Provide(projectID uuid.UUID) (Settings, error) {
	return ProjectSettings(p.store, projectID), nil
}

// ProjectSettings scopes store to projectID.
func ProjectSettings(store SettingStore, projectID uuid.UUID) Settings {
	return &projectSettings{store: store, projectID: projectID}
}

type projectSettings struct {
	store     SettingStore
	projectID uuid.UUID
}

func (p *projectSettings) GetSetting(ctx context.Context, key string) (string, bool, error) {
	return p.store.GetSetting(ctx, p.projectID, key)
}

func (p *projectSettings) SetSetting(ctx context.Context, key, value string) error {
	return p.store.SetSetting(ctx, p.projectID, key, value)
}
