package job

import (
	"context"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BackupTrimmer drops persisted backups beyond the retention limit. Sessions
// only truncate on save, so lowering the limit leaves idle projects with
// longer backup sets until the trimmer runs.
type BackupTrimmer struct {
	store    store.SettingStore
	copies   int
	schedule string
}

func NewBackupTrimmer(schedule string, st store.SettingStore, copies int) *BackupTrimmer {
	if copies <= 0 {
		copies = model.DefaultBackupCopies
	}
	return &BackupTrimmer{
		store:    st,
		copies:   copies,
		schedule: schedule,
	}
}

func (b *BackupTrimmer) Name() string {
	return "backup_trimmer"
}

func (b *BackupTrimmer) Schedule() string {
	return b.schedule
}

func (b *BackupTrimmer) Run() {
	trimmed, err := b.Trim(context.Background())
	if err != nil {
		logrus.Errorf("error trimming backups: %v", err)
		return
	}
	if trimmed.Cardinality() > 0 {
		logrus.Infof("trimmed backups of %v", trimmed.ToSlice())
	}
}

// Trim returns the projects whose backup set was shortened.
func (b *BackupTrimmer) Trim(ctx context.Context) (goset.Set[uuid.UUID], error) {
	trimmed := goset.NewSet[uuid.UUID]()

	projects, err := b.store.ListProjects(ctx)
	if err != nil {
		return trimmed, err
	}

	for _, projectID := range projects {
		raw, ok, err := b.store.GetSetting(ctx, projectID, store.KeyConfigBackups)
		if err != nil {
			logrus.Errorf("error reading backups of %s: %v", projectID, err)
			continue
		}
		if !ok {
			continue
		}

		backups, err := model.DecodeBackupSet(raw)
		if err != nil {
			logrus.Errorf("skipping backups of %s: %v", projectID, err)
			continue
		}
		if len(backups) <= b.copies {
			continue
		}

		value, err := model.EncodeBackupSet(backups.Truncate(b.copies))
		if err != nil {
			logrus.Errorf("error encoding backups of %s: %v", projectID, err)
			continue
		}
		if err := b.store.SetSetting(ctx, projectID, store.KeyConfigBackups, value); err != nil {
			logrus.Errorf("error writing backups of %s: %v", projectID, err)
			continue
		}

		logrus.Debugf("trimmed %d backups of %s", len(backups)-b.copies, projectID)
		trimmed.Add(projectID)
	}

	return trimmed, nil
}
