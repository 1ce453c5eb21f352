package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// DefaultBackupCopies is the number of snapshots kept in a backup set.
const DefaultBackupCopies = 10

// Backup is a snapshot of the config document taken when it was saved.
type Backup struct {
	Timestamp int64
	Document  *ConfigDocument
}

// BackupSet is ordered by timestamp, newest first.
type BackupSet []Backup

// Get returns the snapshot saved at ts.
func (s BackupSet) Get(ts int64) (*ConfigDocument, bool) {
	for _, b := range s {
		if b.Timestamp == ts {
			return b.Document, true
		}
	}
	return nil, false
}

// Timestamps returns the backup keys, newest first.
func (s BackupSet) Timestamps() []int64 {
	keys := make([]int64, 0, len(s))
	for _, b := range s {
		keys = append(keys, b.Timestamp)
	}
	return keys
}

// Put stores doc under ts, replacing a snapshot saved in the same second, and
// returns a new set sorted newest first.
func (s BackupSet) Put(ts int64, doc *ConfigDocument) BackupSet {
	next := make(BackupSet, 0, len(s)+1)
	for _, b := range s {
		if b.Timestamp != ts {
			next = append(next, b)
		}
	}
	next = append(next, Backup{Timestamp: ts, Document: doc})
	next.sort()
	return next
}

// Truncate keeps the newest n snapshots.
func (s BackupSet) Truncate(n int) BackupSet {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (s BackupSet) sort() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Timestamp > s[j].Timestamp
	})
}

// MarshalJSON writes the set as an object keyed by timestamp, newest first.
func (s BackupSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		doc := b.Document
		if doc == nil {
			doc = NewConfigDocument()
		}
		value, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"` + strconv.FormatInt(b.Timestamp, 10) + `":`)
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (s *BackupSet) UnmarshalJSON(data []byte) error {
	set, err := DecodeBackupSet(string(data))
	if err != nil {
		return err
	}
	*s = set
	return nil
}

func EncodeBackupSet(s BackupSet) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeBackupSet parses and validates a stored backup set.
func DecodeBackupSet(raw string) (BackupSet, error) {
	set := BackupSet{}
	if isEmptyValue(raw) {
		return set, nil
	}

	err := walkObject(raw, func(key string, value json.RawMessage) error {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: backup key %q is not a timestamp", ErrInvalidDocument, key)
		}

		doc, err := DecodeDocument(string(value))
		if err != nil {
			return fmt.Errorf("backup %d: %w", ts, err)
		}
		set = append(set, Backup{Timestamp: ts, Document: doc})

		return nil
	})
	if err != nil {
		return nil, err
	}
	set.sort()

	return set, nil
}
