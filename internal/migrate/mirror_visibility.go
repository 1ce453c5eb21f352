package migrate

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/emrgen/shazam/internal/model"
)

const (
	// KeyMirrorVisibility records the mirror visibility rewrite.
	KeyMirrorVisibility = "smvf"

	mirrorVisibilityAttr = "data-shazam-mirror-visibility"
)

// MirrorVisibility rewrites the legacy shazam-mirror-visibility attribute to
// data-shazam-mirror-visibility, leaving attributes already in that form alone.
type MirrorVisibility struct {
	re *regexp2.Regexp
}

func NewMirrorVisibility() *MirrorVisibility {
	re := regexp2.MustCompile(`(?<!data-)shazam-mirror-visibility`, regexp2.Multiline)
	re.MatchTimeout = time.Second
	return &MirrorVisibility{re: re}
}

func (m *MirrorVisibility) Key() string {
	return KeyMirrorVisibility
}

func (m *MirrorVisibility) Name() string {
	return "mirror-visibility"
}

func (m *MirrorVisibility) Apply(field *model.FieldOverride) (int, error) {
	count := 0
	html, err := m.re.ReplaceFunc(field.HTML, func(regexp2.Match) string {
		count++
		return mirrorVisibilityAttr
	}, -1, -1)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		field.HTML = html
	}

	return count, nil
}
