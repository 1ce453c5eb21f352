// Package migrate upgrades stored config documents to the current schema.
//
// Each Step is tagged with a per-field key. Once a step has run on a field
// its replacement count is recorded under that key in the field metadata and
// the step never runs on that field again, so migrating is safe on every load.
package migrate

import (
	"fmt"
	"strings"

	"github.com/emrgen/shazam/internal/model"
	"github.com/sirupsen/logrus"
)

// Step is one idempotent content migration.
type Step interface {
	// Key is the field metadata key recording that the step ran.
	Key() string
	// Name describes the step in save comments.
	Name() string
	// Apply rewrites field in place and returns the number of replacements.
	Apply(field *model.FieldOverride) (int, error)
}

// Migrator runs its steps in order.
type Migrator struct {
	steps []Step
}

// New returns a migrator over steps. Steps are applied in the given order;
// new steps are appended, never inserted.
func New(steps ...Step) *Migrator {
	return &Migrator{steps: steps}
}

// Default returns the migrator with every known step.
func Default() *Migrator {
	return New(NewMirrorVisibility())
}

// Result describes what a migration run changed.
type Result struct {
	Changed bool
	// Applied lists the names of the steps that ran on at least one field.
	Applied []string
}

// Comment is the save comment used when persisting a migrated document.
func (r Result) Comment() string {
	return "Automatic migration: " + strings.Join(r.Applied, ", ")
}

// Migrate returns a migrated copy of doc. The input document is not modified.
func (m *Migrator) Migrate(doc *model.ConfigDocument) (*model.ConfigDocument, Result, error) {
	out := doc.Clone()
	var result Result

	for _, step := range m.steps {
		ran := false
		for _, name := range out.Names() {
			field, _ := out.Field(name)
			if _, done := field.MetaValue(step.Key()); done {
				continue
			}

			count, err := step.Apply(field)
			if err != nil {
				return nil, Result{}, fmt.Errorf("migration %s on field %s: %w", step.Name(), name, err)
			}
			field.SetMeta(step.Key(), count)
			ran = true

			logrus.Debugf("migration %s applied to %s with %d replacements", step.Name(), name, count)
		}

		if ran {
			result.Changed = true
			result.Applied = append(result.Applied, step.Name())
		}
	}

	return out, result, nil
}
