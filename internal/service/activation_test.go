package service

import (
	"context"
	"testing"

	"github.com/emrgen/shazam/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivations(t *testing.T) {
	settings := newCountingSettings()
	putRaw(t, settings, store.KeyConfig, `{
		"b":{"html":"<div class=\"x\" data-shazam-mirror-visibility=\"a\">b<script>alert(1)</script></div>","css":".x{}","javascript":"run()","status":1,"__MISC__":{"smvf":0}},
		"a":{"html":"","status":1,"__MISC__":{"smvf":0}},
		"c":{"html":"<p>c</p>","status":0,"__MISC__":{"smvf":0}}
	}`)

	session := NewConfigSession(settings, testSchema(), alice)
	_, err := Activations(session, "F1")
	assert.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, session.Load(context.TODO()))

	activations, err := Activations(session, "F1")
	require.NoError(t, err)
	assert.Equal(t, []Activation{
		{FieldName: "b", HTML: `<div class="x" data-shazam-mirror-visibility="a">b</div>`, CSS: ".x{}", JavaScript: "run()"},
		{FieldName: "a", HTML: missingHTML},
	}, activations)

	activations, err = Activations(session, "F2")
	require.NoError(t, err)
	assert.Empty(t, activations)
}
