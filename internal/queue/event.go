package queue

import (
	"context"
	"time"
)

const DefaultConfigEventTopic = "shazam.config.events"

type EventKind string

const (
	EventConfigSaved     EventKind = "config_saved"
	EventConfigRestored  EventKind = "config_restored"
	EventJSEditorGranted EventKind = "js_editor_granted"
	EventJSEditorRevoked EventKind = "js_editor_revoked"
)

// ConfigEvent is published after a successful config operation.
type ConfigEvent struct {
	Kind      EventKind `json:"kind"`
	ProjectID string    `json:"project_id"`
	Actor     string    `json:"actor"`
	// Subject is the field, backup timestamp or user the operation was about.
	Subject string    `json:"subject,omitempty"`
	Comment string    `json:"comment,omitempty"`
	At      time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, event *ConfigEvent) error
	Close() error
}
