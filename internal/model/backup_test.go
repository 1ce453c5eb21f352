package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupSet_PutAndTruncate(t *testing.T) {
	var set BackupSet
	for ts := int64(100); ts < 115; ts++ {
		set = set.Put(ts, NewConfigDocument()).Truncate(DefaultBackupCopies)
	}

	require.Len(t, set, DefaultBackupCopies)
	assert.Equal(t, []int64{114, 113, 112, 111, 110, 109, 108, 107, 106, 105}, set.Timestamps())
}

func TestBackupSet_PutSameSecondOverwrites(t *testing.T) {
	first := NewConfigDocument()
	first.Set("a", &FieldOverride{HTML: "first"})
	second := NewConfigDocument()
	second.Set("a", &FieldOverride{HTML: "second"})

	set := BackupSet{}.Put(5, first).Put(5, second)

	require.Len(t, set, 1)
	doc, ok := set.Get(5)
	require.True(t, ok)
	field, _ := doc.Field("a")
	assert.Equal(t, "second", field.HTML)
}

func TestBackupSet_RoundTrip(t *testing.T) {
	set := BackupSet{}.Put(1700000000, testDocument()).Put(1700000100, NewConfigDocument())

	raw, err := EncodeBackupSet(set)
	require.NoError(t, err)

	got, err := DecodeBackupSet(raw)
	require.NoError(t, err)
	assert.Equal(t, set, got)
	assert.Equal(t, []int64{1700000100, 1700000000}, got.Timestamps())
}

func TestDecodeBackupSet(t *testing.T) {
	set, err := DecodeBackupSet("[]")
	require.NoError(t, err)
	assert.Empty(t, set)

	set, err = DecodeBackupSet(`{"1":{},"3":{},"2":{}}`)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, set.Timestamps())

	_, err = DecodeBackupSet(`{"yesterday":{}}`)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = DecodeBackupSet(`{"1":{"f":"x"}}`)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
