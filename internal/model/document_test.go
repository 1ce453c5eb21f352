package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *ConfigDocument {
	doc := NewConfigDocument()
	doc.Set("intro", &FieldOverride{
		HTML:       "<div class='shazam'>age</div>",
		CSS:        ".shazam { color: red; }",
		JavaScript: "console.log('old')",
		Status:     StatusActive,
		Meta:       map[string]int{"smvf": 2},
	})
	doc.Set("summary", &FieldOverride{
		HTML:   "<table></table>",
		Status: StatusInactive,
	})
	doc.Stamp(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), "alice", "first save")

	return doc
}

func TestConfigDocument_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  *ConfigDocument
	}{
		{name: "empty", doc: NewConfigDocument()},
		{name: "fields and metadata", doc: testDocument()},
		{
			name: "metadata only",
			doc: func() *ConfigDocument {
				d := NewConfigDocument()
				d.Stamp(time.Unix(0, 0).UTC(), "bob", "")
				return d
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := EncodeDocument(tt.doc)
			require.NoError(t, err)

			got, err := DecodeDocument(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.doc, got)
		})
	}
}

func TestDecodeDocument_KeepsFieldOrder(t *testing.T) {
	raw := `{"zeta":{"html":"z","status":1},"alpha":{"html":"a","status":1},"__MISC__":{"last_modified":"x"},"mid":{"html":"m","status":0}}`

	doc, err := DecodeDocument(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Names())
	assert.Equal(t, "x", doc.Meta.LastModified)
}

func TestDecodeDocument_EmptyValues(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		doc, err := DecodeDocument(raw)
		require.NoError(t, err, raw)
		assert.True(t, doc.IsEmpty(), raw)
	}
}

func TestDecodeDocument_Status(t *testing.T) {
	tests := []struct {
		raw    string
		status int
	}{
		{`{"f":{"status":1}}`, StatusActive},
		{`{"f":{"status":0}}`, StatusInactive},
		{`{"f":{"status":"1"}}`, StatusActive},
		{`{"f":{"status":"0"}}`, StatusInactive},
		{`{"f":{"status":true}}`, StatusActive},
		{`{"f":{"status":false}}`, StatusInactive},
		{`{"f":{}}`, StatusInactive},
	}

	for _, tt := range tests {
		doc, err := DecodeDocument(tt.raw)
		require.NoError(t, err, tt.raw)

		field, ok := doc.Field("f")
		require.True(t, ok)
		assert.Equal(t, tt.status, field.Status, tt.raw)
	}
}

func TestDecodeDocument_Invalid(t *testing.T) {
	tests := []string{
		`"text"`,
		`{"f":"scalar"}`,
		`{"f":{"status":"yes"}}`,
		`{"f":{"html":1}}`,
		`{"__MISC__":"oops"}`,
		`{"f":{}`,
	}

	for _, raw := range tests {
		_, err := DecodeDocument(raw)
		assert.ErrorIs(t, err, ErrInvalidDocument, raw)
	}
}

func TestDecodeDocument_DropsLegacyKeys(t *testing.T) {
	doc, err := DecodeDocument(`{"last_modified":"2019-01-01","last_modified_by":"x","f":{"html":"h","status":1}}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"f"}, doc.Names())
}

func TestConfigDocument_SetDeleteClone(t *testing.T) {
	doc := testDocument()
	clone := doc.Clone()

	doc.Set("intro", &FieldOverride{HTML: "changed"})
	doc.Delete("summary")
	doc.Meta.SaveComment = "changed"

	field, ok := clone.Field("intro")
	require.True(t, ok)
	assert.Equal(t, "<div class='shazam'>age</div>", field.HTML)
	assert.True(t, clone.Has("summary"))
	assert.Equal(t, "first save", clone.Meta.SaveComment)

	assert.Equal(t, []string{"intro"}, doc.Names())
	assert.False(t, doc.Delete("summary"))
}
