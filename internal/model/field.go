package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// StatusInactive keeps the override in storage but excludes it from activation.
	StatusInactive = 0
	// StatusActive marks the override for activation on its form.
	StatusActive = 1
)

// FieldOverride is the html/css/javascript bundle configured for one host field.
type FieldOverride struct {
	HTML       string
	CSS        string
	JavaScript string
	Status     int
	// Meta holds per-field migration bookkeeping, keyed by migration key.
	Meta map[string]int
}

// NewDefaultFieldOverride returns the boilerplate override used when a field is first configured.
func NewDefaultFieldOverride() *FieldOverride {
	return &FieldOverride{
		HTML:       "<!-- Add your Shazam HTML Here -->\n",
		CSS:        "/* Customize your Shazam with CSS Below */\n",
		JavaScript: "$(document).ready(function(){\n\t//Add javascript here...\n\t\n});",
		Status:     StatusActive,
	}
}

func (f *FieldOverride) Active() bool {
	return f.Status != StatusInactive
}

// MetaValue returns the bookkeeping value stored under key.
func (f *FieldOverride) MetaValue(key string) (int, bool) {
	if f.Meta == nil {
		return 0, false
	}
	v, ok := f.Meta[key]
	return v, ok
}

func (f *FieldOverride) SetMeta(key string, value int) {
	if f.Meta == nil {
		f.Meta = make(map[string]int)
	}
	f.Meta[key] = value
}

func (f *FieldOverride) Clone() *FieldOverride {
	if f == nil {
		return nil
	}
	clone := *f
	if f.Meta != nil {
		clone.Meta = make(map[string]int, len(f.Meta))
		for k, v := range f.Meta {
			clone.Meta[k] = v
		}
	}
	return &clone
}

type fieldOverrideJSON struct {
	HTML       string          `json:"html"`
	CSS        string          `json:"css"`
	JavaScript string          `json:"javascript"`
	Status     json.RawMessage `json:"status,omitempty"`
	Meta       map[string]int  `json:"__MISC__,omitempty"`
}

func (f *FieldOverride) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		HTML       string         `json:"html"`
		CSS        string         `json:"css"`
		JavaScript string         `json:"javascript"`
		Status     int            `json:"status"`
		Meta       map[string]int `json:"__MISC__,omitempty"`
	}{f.HTML, f.CSS, f.JavaScript, f.Status, f.Meta})
}

// UnmarshalJSON accepts status as a number, a numeric string or a bool, since
// older writers posted the form value through unchanged.
func (f *FieldOverride) UnmarshalJSON(data []byte) error {
	var raw fieldOverrideJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	status, err := parseStatus(raw.Status)
	if err != nil {
		return err
	}

	*f = FieldOverride{
		HTML:       raw.HTML,
		CSS:        raw.CSS,
		JavaScript: raw.JavaScript,
		Status:     status,
		Meta:       raw.Meta,
	}

	return nil
}

func parseStatus(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return StatusInactive, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return normalizeStatus(n), nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return StatusActive, nil
		}
		return StatusInactive, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return StatusInactive, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: status %q is not a number", ErrInvalidDocument, s)
		}
		return normalizeStatus(n), nil
	}

	return 0, fmt.Errorf("%w: unsupported status value %s", ErrInvalidDocument, string(raw))
}

func normalizeStatus(n int) int {
	if n == StatusInactive {
		return StatusInactive
	}
	return StatusActive
}
