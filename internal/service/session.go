package service

import (
	"context"
	"fmt"
	"time"

	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/index"
	"github.com/emrgen/shazam/internal/migrate"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/store"
	"github.com/sirupsen/logrus"
)

type Option func(*ConfigSession)

// WithMigrator replaces the default migration steps.
func WithMigrator(m *migrate.Migrator) Option {
	return func(s *ConfigSession) {
		s.migrator = m
	}
}

// WithBackupCopies sets how many snapshots are retained.
func WithBackupCopies(n int) Option {
	return func(s *ConfigSession) {
		if n > 0 {
			s.copies = n
		}
	}
}

// WithClock sets the time source used to stamp saves.
func WithClock(now func() time.Time) Option {
	return func(s *ConfigSession) {
		s.now = now
	}
}

// ConfigSession owns the config document of one project for the duration of
// a request. It is not safe for concurrent use; concurrent sessions on the
// same project are last-write-wins.
type ConfigSession struct {
	settings store.Settings
	schema   host.Schema
	actor    host.Actor
	migrator *migrate.Migrator
	copies   int
	now      func() time.Time

	loaded  bool
	doc     *model.ConfigDocument
	backups model.BackupSet
	index   index.FieldIndex
}

// NewConfigSession creates a session, nothing is read until Load.
func NewConfigSession(settings store.Settings, schema host.Schema, actor host.Actor, opts ...Option) *ConfigSession {
	s := &ConfigSession{
		settings: settings,
		schema:   schema,
		actor:    actor,
		migrator: migrate.Default(),
		copies:   model.DefaultBackupCopies,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the document and its backups, migrates the document (saving it
// right away if a migration ran) and builds the field index. Calling Load on
// a loaded session does nothing.
func (s *ConfigSession) Load(ctx context.Context) error {
	if s.loaded {
		logrus.Debug("config already loaded")
		return nil
	}

	rawDoc, _, err := s.settings.GetSetting(ctx, store.KeyConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	doc, err := model.DecodeDocument(rawDoc)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rawBackups, _, err := s.settings.GetSetting(ctx, store.KeyConfigBackups)
	if err != nil {
		return fmt.Errorf("load config backups: %w", err)
	}
	backups, err := model.DecodeBackupSet(rawBackups)
	if err != nil {
		return fmt.Errorf("load config backups: %w", err)
	}

	migrated, result, err := s.migrator.Migrate(doc)
	if err != nil {
		return err
	}

	s.backups = backups
	if result.Changed {
		logrus.Infof("config migrated (%v), saving", result.Applied)
		if err := s.save(ctx, migrated, result.Comment()); err != nil {
			s.backups = nil
			return err
		}
	} else {
		s.doc = migrated
		s.index = index.Build(migrated, s.schema)
	}

	s.loaded = true
	logrus.Debug("config loaded")

	return nil
}

func (s *ConfigSession) Loaded() bool {
	return s.loaded
}

func (s *ConfigSession) Actor() host.Actor {
	return s.actor
}

// Document returns the in-memory document. Edits to it are persisted by Save.
func (s *ConfigSession) Document() *model.ConfigDocument {
	return s.doc
}

// Backups returns the backup set, newest first.
func (s *ConfigSession) Backups() model.BackupSet {
	return s.backups
}

// Index returns the field index of the current document.
func (s *ConfigSession) Index() index.FieldIndex {
	return s.index
}

// Save replaces the document with doc, stamped with the session actor and
// comment, and records it as the newest backup. The document is written
// before the backups; if the backup write fails the document is saved but
// the snapshot is only recorded by the next save.
func (s *ConfigSession) Save(ctx context.Context, doc *model.ConfigDocument, comment string) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	return s.save(ctx, doc, comment)
}

func (s *ConfigSession) save(ctx context.Context, doc *model.ConfigDocument, comment string) error {
	now := s.now()
	next := doc.Clone()
	next.Stamp(now, s.actor.Username, comment)

	backups := s.backups.Put(now.Unix(), next.Clone()).Truncate(s.copies)

	rawDoc, err := model.EncodeDocument(next)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	rawBackups, err := model.EncodeBackupSet(backups)
	if err != nil {
		return fmt.Errorf("encode config backups: %w", err)
	}

	if err := s.settings.SetSetting(ctx, store.KeyConfig, rawDoc); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	s.doc = next
	s.index = index.Build(next, s.schema)
	logrus.Infof("config saved by %s: %s", s.actor.Username, comment)

	if err := s.settings.SetSetting(ctx, store.KeyConfigBackups, rawBackups); err != nil {
		return fmt.Errorf("save config backups: %w", err)
	}
	s.backups = backups
	logrus.Debugf("%d backup configs saved", len(backups))

	return nil
}

// Restore saves the snapshot taken at ts as the current document.
func (s *ConfigSession) Restore(ctx context.Context, ts int64) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	snapshot, ok := s.backups.Get(ts)
	if !ok || snapshot.IsEmpty() {
		logrus.Errorf("no config backup at %d", ts)
		return fmt.Errorf("%w: %d", ErrBackupNotFound, ts)
	}

	return s.save(ctx, snapshot, "Restored "+BackupName(snapshot, false))
}

// AddField configures name with boilerplate content, replacing any existing
// override. The change is persisted by the next Save.
func (s *ConfigSession) AddField(name string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	s.doc.Set(name, model.NewDefaultFieldOverride())
	return nil
}

// SetFieldStatus activates or deactivates name in memory.
func (s *ConfigSession) SetFieldStatus(name string, active bool) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	field, ok := s.doc.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}

	if active {
		field.Status = model.StatusActive
	} else {
		field.Status = model.StatusInactive
	}

	return nil
}

// DeleteField removes name in memory.
func (s *ConfigSession) DeleteField(name string) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	if !s.doc.Delete(name) {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}

	return nil
}
