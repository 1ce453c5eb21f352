package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/migrate"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	alice = host.Actor{Username: "alice"}
	admin = host.Actor{Username: "admin", Privileged: true}
)

type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

// now advances one second per call so every save gets its own backup key
func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// countingSettings counts reads and writes and can fail writes of one key.
type countingSettings struct {
	store.Settings
	reads   int
	writes  map[string]int
	failKey string
}

var errWriteFailed = errors.New("write failed")

func newCountingSettings() *countingSettings {
	return &countingSettings{
		Settings: store.ProjectSettings(store.NewMemoryStore(), uuid.New()),
		writes:   make(map[string]int),
	}
}

func (c *countingSettings) GetSetting(ctx context.Context, key string) (string, bool, error) {
	c.reads++
	return c.Settings.GetSetting(ctx, key)
}

func (c *countingSettings) SetSetting(ctx context.Context, key, value string) error {
	if key == c.failKey {
		return errWriteFailed
	}
	c.writes[key]++
	return c.Settings.SetSetting(ctx, key, value)
}

func testSchema() *host.MapSchema {
	return host.NewMapSchema(
		host.Field{Name: "a", Form: "F1", ElementType: host.ElementDescriptive},
		host.Field{Name: "b", Form: "F1", ElementType: host.ElementDescriptive},
		host.Field{Name: "c", Form: "F2", ElementType: host.ElementDescriptive},
	)
}

// withoutMigrations keeps reloads from saving fields written without migration metadata.
var withoutMigrations = WithMigrator(migrate.New())

func newTestSession(t *testing.T, settings store.Settings, actor host.Actor, clock *testClock, opts ...Option) *ConfigSession {
	t.Helper()
	s := NewConfigSession(settings, testSchema(), actor, append([]Option{WithClock(clock.now)}, opts...)...)
	require.NoError(t, s.Load(context.TODO()))
	return s
}

func putRaw(t *testing.T, settings store.Settings, key, value string) {
	t.Helper()
	require.NoError(t, settings.SetSetting(context.TODO(), key, value))
}

func fieldsOf(doc *model.ConfigDocument) map[string]model.FieldOverride {
	fields := make(map[string]model.FieldOverride)
	for _, name := range doc.Names() {
		f, _ := doc.Field(name)
		fields[name] = *f
	}
	return fields
}
