package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// MetadataKey is the reserved key holding document and field metadata.
	MetadataKey = "__MISC__"
	// TimeLayout is the format of DocumentMeta.LastModified.
	TimeLayout = "2006-01-02 15:04:05"
)

// legacy writers stored these at the top level of the document
var legacyScalarKeys = map[string]bool{
	"last_modified":    true,
	"last_modified_by": true,
}

// DocumentMeta is rewritten on every save.
type DocumentMeta struct {
	LastModified   string `json:"last_modified"`
	LastModifiedBy string `json:"last_modified_by"`
	SaveComment    string `json:"save_comment"`
}

// ConfigDocument maps host field names to their overrides. Field order is the
// order fields were first added (or decoded) and is only used for indexing.
type ConfigDocument struct {
	fields map[string]*FieldOverride
	order  []string
	Meta   *DocumentMeta
}

func NewConfigDocument() *ConfigDocument {
	return &ConfigDocument{fields: make(map[string]*FieldOverride)}
}

func (d *ConfigDocument) Len() int {
	return len(d.order)
}

// IsEmpty reports whether the document holds neither fields nor metadata.
func (d *ConfigDocument) IsEmpty() bool {
	return d == nil || (len(d.order) == 0 && d.Meta == nil)
}

// Names returns the field names in document order.
func (d *ConfigDocument) Names() []string {
	names := make([]string, len(d.order))
	copy(names, d.order)
	return names
}

func (d *ConfigDocument) Field(name string) (*FieldOverride, bool) {
	f, ok := d.fields[name]
	return f, ok
}

func (d *ConfigDocument) Has(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// Set inserts or replaces a field. Replacing keeps the field's position.
func (d *ConfigDocument) Set(name string, field *FieldOverride) {
	if d.fields == nil {
		d.fields = make(map[string]*FieldOverride)
	}
	if _, ok := d.fields[name]; !ok {
		d.order = append(d.order, name)
	}
	d.fields[name] = field
}

func (d *ConfigDocument) Delete(name string) bool {
	if _, ok := d.fields[name]; !ok {
		return false
	}
	delete(d.fields, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of the document.
func (d *ConfigDocument) Clone() *ConfigDocument {
	clone := NewConfigDocument()
	if d == nil {
		return clone
	}
	for _, name := range d.order {
		clone.Set(name, d.fields[name].Clone())
	}
	if d.Meta != nil {
		meta := *d.Meta
		clone.Meta = &meta
	}
	return clone
}

// Stamp replaces the document metadata.
func (d *ConfigDocument) Stamp(at time.Time, by, comment string) {
	d.Meta = &DocumentMeta{
		LastModified:   at.Format(TimeLayout),
		LastModifiedBy: by,
		SaveComment:    comment,
	}
}

func (d *ConfigDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(d.fields[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	if d.Meta != nil {
		if len(d.order) > 0 {
			buf.WriteByte(',')
		}
		meta, err := json.Marshal(d.Meta)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"` + MetadataKey + `":`)
		buf.Write(meta)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (d *ConfigDocument) UnmarshalJSON(data []byte) error {
	doc, err := DecodeDocument(string(data))
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// EncodeDocument serializes the document for the settings store.
func EncodeDocument(doc *ConfigDocument) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeDocument parses and validates a stored document. Empty input, null and
// an empty list decode to an empty document.
func DecodeDocument(raw string) (*ConfigDocument, error) {
	doc := NewConfigDocument()
	if isEmptyValue(raw) {
		return doc, nil
	}

	err := walkObject(raw, func(key string, value json.RawMessage) error {
		if key == MetadataKey {
			var meta DocumentMeta
			if err := json.Unmarshal(value, &meta); err != nil {
				return fmt.Errorf("%w: metadata: %v", ErrInvalidDocument, err)
			}
			doc.Meta = &meta
			return nil
		}

		if !isObject(value) {
			if legacyScalarKeys[key] {
				logrus.Warnf("dropping legacy top level key %s from config", key)
				return nil
			}
			return fmt.Errorf("%w: field %s is not an object", ErrInvalidDocument, key)
		}

		field := &FieldOverride{}
		if err := json.Unmarshal(value, field); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		doc.Set(key, field)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// walkObject visits the members of a JSON object in document order.
func walkObject(raw string, visit func(key string, value json.RawMessage) error) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected an object", ErrInvalidDocument)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: expected an object key", ErrInvalidDocument)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}

		if err := visit(key, value); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return nil
}

func isEmptyValue(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == "null" || trimmed == "[]"
}

func isObject(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
