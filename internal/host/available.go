package host

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxLabelLength = 50

var (
	nonWordRun = regexp.MustCompile(`[\W ]+`)
	stripTags  = bluemonday.StrictPolicy()
)

// AvailableField is a descriptive field that can still be given an override.
type AvailableField struct {
	Name  string `json:"name"`
	Form  string `json:"form"`
	Label string `json:"label"`
}

// AvailableFields lists descriptive fields of schema for which configured
// reports false, with labels reduced to a short single line.
func AvailableFields(schema *MapSchema, configured func(name string) bool) []AvailableField {
	var available []AvailableField
	for _, f := range schema.Fields() {
		if f.ElementType != ElementDescriptive || configured(f.Name) {
			continue
		}
		available = append(available, AvailableField{
			Name:  f.Name,
			Form:  f.Form,
			Label: shortLabel(f.Label),
		})
	}
	return available
}

func shortLabel(label string) string {
	label = stripTags.Sanitize(label)
	label = nonWordRun.ReplaceAllString(label, "_")
	if len(label) > maxLabelLength {
		label = label[:maxLabelLength] + "..."
	}
	return strings.TrimSpace(label)
}
