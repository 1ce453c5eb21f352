package jobs

import (
	"context"
	"errors"

	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/service"
	"github.com/emrgen/shazam/internal/store"
	"github.com/sirupsen/logrus"
)

// MigrationSweepTask loads the config of every project as the system actor,
// which persists any pending migration.
type MigrationSweepTask struct {
	store   store.SettingStore
	schemas host.SchemaProvider
	opts    []service.Option
	cron    string
}

func NewMigrationSweepTask(schedule string, st store.SettingStore, schemas host.SchemaProvider, opts ...service.Option) *MigrationSweepTask {
	return &MigrationSweepTask{
		store:   st,
		schemas: schemas,
		opts:    opts,
		cron:    schedule,
	}
}

func (m *MigrationSweepTask) Name() string {
	return "migration_sweep"
}

func (m *MigrationSweepTask) Schedule() string {
	return m.cron
}

func (m *MigrationSweepTask) Run() {
	swept, err := m.Sweep(context.Background())
	if err != nil {
		logrus.Errorf("migration sweep failed: %v", err)
		return
	}
	logrus.Infof("migration sweep loaded %d projects", swept)
}

// Sweep returns the number of projects loaded without error. A project that
// fails to load is logged and skipped.
func (m *MigrationSweepTask) Sweep(ctx context.Context) (int, error) {
	projects, err := m.store.ListProjects(ctx)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, projectID := range projects {
		schema, err := m.schemas.Schema(projectID)
		if errors.Is(err, host.ErrDictionaryNotFound) {
			logrus.Debugf("no data dictionary for %s, indexing against an empty schema", projectID)
			schema = host.NewMapSchema()
		} else if err != nil {
			logrus.Errorf("migration sweep: schema of %s: %v", projectID, err)
			continue
		}

		session := service.NewConfigSession(store.ProjectSettings(m.store, projectID), schema, host.SystemActor, m.opts...)
		if err := session.Load(ctx); err != nil {
			logrus.Errorf("migration sweep: project %s: %v", projectID, err)
			continue
		}
		swept++
	}

	return swept, nil
}
