package migrate

import (
	"testing"

	"github.com/emrgen/shazam/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWithHTML(html map[string]string) *model.ConfigDocument {
	doc := model.NewConfigDocument()
	for _, name := range []string{"a", "b", "c"} {
		if h, ok := html[name]; ok {
			doc.Set(name, &model.FieldOverride{HTML: h, Status: model.StatusActive})
		}
	}
	return doc
}

func TestMirrorVisibility_Apply(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		want  string
		count int
	}{
		{
			name:  "legacy attribute",
			html:  "<div shazam-mirror-visibility='x'>",
			want:  "<div data-shazam-mirror-visibility='x'>",
			count: 1,
		},
		{
			name:  "already current",
			html:  "<div data-shazam-mirror-visibility='x'>",
			want:  "<div data-shazam-mirror-visibility='x'>",
			count: 0,
		},
		{
			name:  "mixed",
			html:  "<tr shazam-mirror-visibility=\"a\"></tr>\n<tr data-shazam-mirror-visibility=\"b\"></tr>\n<tr shazam-mirror-visibility=\"c\"></tr>",
			want:  "<tr data-shazam-mirror-visibility=\"a\"></tr>\n<tr data-shazam-mirror-visibility=\"b\"></tr>\n<tr data-shazam-mirror-visibility=\"c\"></tr>",
			count: 2,
		},
		{
			name:  "no attribute",
			html:  "<table></table>",
			want:  "<table></table>",
			count: 0,
		},
	}

	step := NewMirrorVisibility()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := &model.FieldOverride{HTML: tt.html}
			count, err := step.Apply(field)
			require.NoError(t, err)
			assert.Equal(t, tt.count, count)
			assert.Equal(t, tt.want, field.HTML)
		})
	}
}

func TestMigrator_Migrate(t *testing.T) {
	doc := docWithHTML(map[string]string{
		"a": "<div shazam-mirror-visibility='x'>",
		"b": "<div data-shazam-mirror-visibility='x'>",
	})

	migrated, result, err := Default().Migrate(doc)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, []string{"mirror-visibility"}, result.Applied)
	assert.Equal(t, "Automatic migration: mirror-visibility", result.Comment())

	a, _ := migrated.Field("a")
	assert.Equal(t, "<div data-shazam-mirror-visibility='x'>", a.HTML)
	count, ok := a.MetaValue(KeyMirrorVisibility)
	assert.True(t, ok)
	assert.Equal(t, 1, count)

	b, _ := migrated.Field("b")
	assert.Equal(t, "<div data-shazam-mirror-visibility='x'>", b.HTML)
	count, ok = b.MetaValue(KeyMirrorVisibility)
	assert.True(t, ok)
	assert.Equal(t, 0, count)

	// input is untouched
	original, _ := doc.Field("a")
	assert.Equal(t, "<div shazam-mirror-visibility='x'>", original.HTML)
	assert.Nil(t, original.Meta)
}

func TestMigrator_Idempotent(t *testing.T) {
	docs := []*model.ConfigDocument{
		model.NewConfigDocument(),
		docWithHTML(map[string]string{"a": "shazam-mirror-visibility shazam-mirror-visibility"}),
		docWithHTML(map[string]string{"a": "plain", "b": "<p data-shazam-mirror-visibility='q'>", "c": ""}),
	}

	m := Default()
	for _, doc := range docs {
		once, _, err := m.Migrate(doc)
		require.NoError(t, err)

		twice, result, err := m.Migrate(once)
		require.NoError(t, err)
		assert.False(t, result.Changed)
		assert.Empty(t, result.Applied)
		assert.Equal(t, once, twice)
	}
}

func TestMigrator_SkipsFlaggedFields(t *testing.T) {
	doc := model.NewConfigDocument()
	doc.Set("a", &model.FieldOverride{
		HTML: "<div shazam-mirror-visibility='x'>",
		Meta: map[string]int{KeyMirrorVisibility: 0},
	})

	migrated, result, err := Default().Migrate(doc)
	require.NoError(t, err)
	assert.False(t, result.Changed)

	a, _ := migrated.Field("a")
	assert.Equal(t, "<div shazam-mirror-visibility='x'>", a.HTML)
}
