package host

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrDictionaryNotFound = errors.New("data dictionary not found")

type dictionary struct {
	Fields []Field `yaml:"fields"`
}

// LoadDictionary reads a YAML data dictionary:
//
//	fields:
//	  - name: intro
//	    form: demographics
//	    element_type: descriptive
//	    label: Introduction
func LoadDictionary(r io.Reader) (*MapSchema, error) {
	var dict dictionary
	if err := yaml.NewDecoder(r).Decode(&dict); err != nil {
		if errors.Is(err, io.EOF) {
			return NewMapSchema(), nil
		}
		return nil, fmt.Errorf("decode data dictionary: %w", err)
	}

	for i, f := range dict.Fields {
		if f.Name == "" || f.Form == "" {
			return nil, fmt.Errorf("data dictionary entry %d: name and form are required", i)
		}
	}

	return NewMapSchema(dict.Fields...), nil
}

// DictionaryProvider loads <dir>/<project id>.yaml for each project.
type DictionaryProvider struct {
	dir string
}

func NewDictionaryProvider(dir string) *DictionaryProvider {
	return &DictionaryProvider{dir: dir}
}

func (p *DictionaryProvider) Schema(projectID uuid.UUID) (*MapSchema, error) {
	f, err := os.Open(filepath.Join(p.dir, projectID.String()+".yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: project %s", ErrDictionaryNotFound, projectID)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadDictionary(f)
}

// SchemaProvider resolves the host schema of a project.
type SchemaProvider interface {
	Schema(projectID uuid.UUID) (*MapSchema, error)
}

var _ SchemaProvider = (*DictionaryProvider)(nil)

// StaticProvider serves one schema to every project.
type StaticProvider struct {
	schema *MapSchema
}

func NewStaticProvider(schema *MapSchema) *StaticProvider {
	return &StaticProvider{schema: schema}
}

func (p *StaticProvider) Schema(uuid.UUID) (*MapSchema, error) {
	return p.schema, nil
}
