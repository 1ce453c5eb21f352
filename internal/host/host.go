// Package host describes what the config engine needs from the hosting
// application: its form schema and the identity of the acting user.
package host

// ElementDescriptive is the element type of fields that only display text.
const ElementDescriptive = "descriptive"

// Field is a host form field.
type Field struct {
	Name        string `yaml:"name" json:"name"`
	Form        string `yaml:"form" json:"form"`
	ElementType string `yaml:"element_type" json:"element_type"`
	Label       string `yaml:"label" json:"label"`
}

// Schema resolves host field names.
type Schema interface {
	// Field returns the field named name, ok is false if the host does not know it.
	Field(name string) (Field, bool)
}

// Actor is the user performing an operation.
type Actor struct {
	Username string
	// Privileged actors may edit javascript and manage the javascript allowlist.
	Privileged bool
}

// SystemActor stamps saves made by background jobs.
var SystemActor = Actor{Username: "system", Privileged: true}

// MapSchema is a Schema over an ordered list of fields.
type MapSchema struct {
	fields []Field
	byName map[string]int
}

func NewMapSchema(fields ...Field) *MapSchema {
	s := &MapSchema{byName: make(map[string]int, len(fields))}
	for _, f := range fields {
		if i, ok := s.byName[f.Name]; ok {
			s.fields[i] = f
			continue
		}
		s.byName[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

func (s *MapSchema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns all fields in dictionary order.
func (s *MapSchema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}
