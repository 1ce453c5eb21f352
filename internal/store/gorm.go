package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/shazam/internal/compress"
	"github.com/emrgen/shazam/internal/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB, codec compress.Compress) *GormStore {
	if codec == nil {
		codec = compress.NewNop()
	}
	return &GormStore{
		db:    db,
		codec: codec,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db    *gorm.DB
	codec compress.Compress
}

// GetSetting decodes the value with the compression it was written with.
func (g *GormStore) GetSetting(ctx context.Context, projectID uuid.UUID, key string) (string, bool, error) {
	var setting model.Setting
	err := g.db.WithContext(ctx).Where("project_id = ? AND name = ?", projectID.String(), key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	codec, err := compress.ByName(setting.Compression)
	if err != nil {
		return "", false, fmt.Errorf("setting %s: %w", key, err)
	}

	data, err := codec.Decode(setting.Value)
	if err != nil {
		return "", false, fmt.Errorf("setting %s: %w", key, err)
	}

	return string(data), true, nil
}

func (g *GormStore) SetSetting(ctx context.Context, projectID uuid.UUID, key, value string) error {
	data, err := g.codec.Encode([]byte(value))
	if err != nil {
		return err
	}

	setting := &model.Setting{
		ProjectID:   projectID.String(),
		Name:        key,
		Value:       data,
		Compression: g.codec.Name(),
	}

	logrus.Debugf("writing setting %s for project %s (%d bytes)", key, projectID, len(data))

	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "compression", "updated_at"}),
	}).Create(setting).Error
}

func (g *GormStore) ListProjects(ctx context.Context) ([]uuid.UUID, error) {
	var ids []string
	err := g.db.WithContext(ctx).Model(&model.Setting{}).Distinct("project_id").Pluck("project_id", &ids).Error
	if err != nil {
		return nil, err
	}

	projects := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		projectID, err := uuid.Parse(id)
		if err != nil {
			logrus.Warnf("skipping setting rows with invalid project id %q", id)
			continue
		}
		projects = append(projects, projectID)
	}

	return projects, nil
}

// Migrate creates or updates the settings table.
func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}
