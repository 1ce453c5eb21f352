package service

import (
	"github.com/microcosm-cc/bluemonday"
)

const missingHTML = "<div>MISSING SHAZAM HTML</div>"

// Activation is what the renderer needs to apply one override on a form.
type Activation struct {
	FieldName  string `json:"field_name"`
	HTML       string `json:"html"`
	CSS        string `json:"css,omitempty"`
	JavaScript string `json:"javascript,omitempty"`
}

var overridePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id").Globally()
	p.AllowDataAttributes()
	return p
}()

// Activations returns the overrides to apply on form, in document order. The
// html is sanitized; css and javascript are passed through as configured.
func Activations(session *ConfigSession, form string) ([]Activation, error) {
	if !session.Loaded() {
		return nil, ErrNotLoaded
	}

	doc := session.Document()
	names := session.Index().Fields(form)
	activations := make([]Activation, 0, len(names))
	for _, name := range names {
		field, ok := doc.Field(name)
		if !ok {
			continue
		}

		html := missingHTML
		if field.HTML != "" {
			html = overridePolicy.Sanitize(field.HTML)
		}

		activations = append(activations, Activation{
			FieldName:  name,
			HTML:       html,
			CSS:        field.CSS,
			JavaScript: field.JavaScript,
		})
	}

	return activations, nil
}
