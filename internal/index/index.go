// Package index groups configured field overrides by the host form they belong to.
package index

import (
	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/model"
	"github.com/sirupsen/logrus"
)

// FieldIndex maps a form to the active overrides on it, in document order.
type FieldIndex map[string][]string

// Build indexes the active fields of doc. Fields the schema does not know
// are skipped with a warning; they were removed from the host but are
// still configured.
func Build(doc *model.ConfigDocument, schema host.Schema) FieldIndex {
	idx := make(FieldIndex)
	for _, name := range doc.Names() {
		hostField, ok := schema.Field(name)
		if !ok {
			logrus.Warnf("configured field %s is not present in the host schema", name)
			continue
		}

		field, _ := doc.Field(name)
		if !field.Active() {
			logrus.Debugf("skipping %s - inactive", name)
			continue
		}

		idx[hostField.Form] = append(idx[hostField.Form], name)
	}

	return idx
}

// Fields returns the overrides to activate on form.
func (idx FieldIndex) Fields(form string) []string {
	return idx[form]
}

// Active reports whether form has any override to activate.
func (idx FieldIndex) Active(form string) bool {
	return len(idx[form]) > 0
}
