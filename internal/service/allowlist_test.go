package service

import (
	"context"
	"testing"

	"github.com/emrgen/shazam/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavascriptEditors_GrantAndRevoke(t *testing.T) {
	ctx := context.TODO()
	settings := newCountingSettings()
	editors := NewJavascriptEditors(settings, admin, true)

	added, err := editors.Grant(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = editors.Grant(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = editors.Grant(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, added)

	users, err := editors.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)

	allowed, err := editors.CanEditJavascript(ctx, alice)
	require.NoError(t, err)
	assert.True(t, allowed)

	removed, err := editors.Revoke(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = editors.Revoke(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, removed)

	allowed, err = editors.CanEditJavascript(ctx, alice)
	require.NoError(t, err)
	assert.False(t, allowed)

	raw, _, err := settings.GetSetting(ctx, store.KeyJSEditors)
	require.NoError(t, err)
	assert.JSONEq(t, `["bob"]`, raw)
}

func TestJavascriptEditors_PermissionDenied(t *testing.T) {
	ctx := context.TODO()
	settings := newCountingSettings()
	putRaw(t, settings, store.KeyJSEditors, `["carol"]`)
	settings.writes = make(map[string]int)

	tests := []struct {
		name    string
		editors *JavascriptEditors
	}{
		{name: "unprivileged", editors: NewJavascriptEditors(settings, alice, true)},
		{name: "grants disabled", editors: NewJavascriptEditors(settings, admin, false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.editors.Grant(ctx, "bob")
			assert.ErrorIs(t, err, ErrPermissionDenied)
			_, err = tt.editors.Revoke(ctx, "carol")
			assert.ErrorIs(t, err, ErrPermissionDenied)
		})
	}

	assert.Empty(t, settings.writes)
	raw, _, err := settings.GetSetting(ctx, store.KeyJSEditors)
	require.NoError(t, err)
	assert.JSONEq(t, `["carol"]`, raw)
}

func TestJavascriptEditors_InvalidUsername(t *testing.T) {
	editors := NewJavascriptEditors(newCountingSettings(), admin, true)

	_, err := editors.Grant(context.TODO(), "  ")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestJavascriptEditors_DisabledList(t *testing.T) {
	settings := newCountingSettings()
	putRaw(t, settings, store.KeyJSEditors, `["alice"]`)

	users, err := NewJavascriptEditors(settings, admin, false).List(context.TODO())
	require.NoError(t, err)
	assert.Empty(t, users)

	allowed, err := NewJavascriptEditors(settings, admin, false).CanEditJavascript(context.TODO(), admin)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestJavascriptEditors_InvalidList(t *testing.T) {
	settings := newCountingSettings()
	putRaw(t, settings, store.KeyJSEditors, `{"alice":true}`)

	_, err := NewJavascriptEditors(settings, admin, true).List(context.TODO())
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
