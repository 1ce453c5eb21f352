package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/queue"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FieldSubmission is an edit of one override posted by the config editor.
type FieldSubmission struct {
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	JavaScript string `json:"javascript"`
	// Status is left unchanged when nil.
	Status *int `json:"status,omitempty"`
}

// Editor performs the admin actions on a project config. Every action loads
// the session, edits the document and saves it with a comment naming the
// action.
type Editor struct {
	projectID uuid.UUID
	session   *ConfigSession
	editors   *JavascriptEditors
	publisher queue.Publisher
}

func NewEditor(projectID uuid.UUID, session *ConfigSession, editors *JavascriptEditors, publisher queue.Publisher) *Editor {
	if publisher == nil {
		publisher = queue.NewLogPublisher()
	}
	return &Editor{
		projectID: projectID,
		session:   session,
		editors:   editors,
		publisher: publisher,
	}
}

func (e *Editor) Session() *ConfigSession {
	return e.session
}

// CreateField configures name with boilerplate content.
func (e *Editor) CreateField(ctx context.Context, name string) error {
	if err := e.session.Load(ctx); err != nil {
		return err
	}
	if e.session.Document().Has(name) {
		return fmt.Errorf("%w: %s", ErrFieldExists, name)
	}

	if err := e.session.AddField(name); err != nil {
		return err
	}

	return e.save(ctx, name, "Created "+name)
}

// SubmitField stores an edit of name, creating the override if needed. Unless
// the actor is privileged or allowlisted the submitted javascript is replaced
// by the stored javascript.
func (e *Editor) SubmitField(ctx context.Context, name string, submitted FieldSubmission, comment string) error {
	if err := e.session.Load(ctx); err != nil {
		return err
	}

	actor := e.session.Actor()
	allowed, err := e.editors.CanEditJavascript(ctx, actor)
	if err != nil {
		return err
	}

	doc := e.session.Document().Clone()
	field, exists := doc.Field(name)
	if !exists {
		field = &model.FieldOverride{Status: model.StatusActive}
	}

	field.HTML = submitted.HTML
	field.CSS = submitted.CSS
	if allowed {
		field.JavaScript = submitted.JavaScript
	} else {
		// field.JavaScript already holds the stored value, or "" for a new field
		if submitted.JavaScript != field.JavaScript {
			logrus.Warnf("discarding javascript submitted by %s for %s", actor.Username, name)
		}
	}
	if submitted.Status != nil {
		if *submitted.Status == model.StatusInactive {
			field.Status = model.StatusInactive
		} else {
			field.Status = model.StatusActive
		}
	}

	doc.Set(name, field)

	if comment == "" {
		comment = "-"
	} else {
		comment = "[" + name + "] " + comment
	}

	return e.saveDocument(ctx, doc, name, comment)
}

func (e *Editor) DeleteField(ctx context.Context, name string) error {
	if err := e.session.Load(ctx); err != nil {
		return err
	}
	if err := e.session.DeleteField(name); err != nil {
		return err
	}

	return e.save(ctx, name, "Deleted "+name)
}

func (e *Editor) ActivateField(ctx context.Context, name string) error {
	return e.setStatus(ctx, name, true, "Activated "+name)
}

func (e *Editor) DeactivateField(ctx context.Context, name string) error {
	return e.setStatus(ctx, name, false, "Deactivated "+name)
}

func (e *Editor) setStatus(ctx context.Context, name string, active bool, comment string) error {
	if err := e.session.Load(ctx); err != nil {
		return err
	}
	if err := e.session.SetFieldStatus(name, active); err != nil {
		return err
	}

	return e.save(ctx, name, comment)
}

// Restore makes the backup taken at ts the current config.
func (e *Editor) Restore(ctx context.Context, ts int64) error {
	if err := e.session.Restore(ctx, ts); err != nil {
		return err
	}

	e.publish(ctx, queue.EventConfigRestored, strconv.FormatInt(ts, 10), e.session.Document().Meta.SaveComment)

	return nil
}

func (e *Editor) GrantJavascript(ctx context.Context, username string) error {
	added, err := e.editors.Grant(ctx, username)
	if err != nil {
		return err
	}
	if added {
		e.publish(ctx, queue.EventJSEditorGranted, username, "")
	}

	return nil
}

func (e *Editor) RevokeJavascript(ctx context.Context, username string) error {
	removed, err := e.editors.Revoke(ctx, username)
	if err != nil {
		return err
	}
	if removed {
		e.publish(ctx, queue.EventJSEditorRevoked, username, "")
	}

	return nil
}

func (e *Editor) save(ctx context.Context, subject, comment string) error {
	return e.saveDocument(ctx, e.session.Document(), subject, comment)
}

func (e *Editor) saveDocument(ctx context.Context, doc *model.ConfigDocument, subject, comment string) error {
	if err := e.session.Save(ctx, doc, comment); err != nil {
		return err
	}

	e.publish(ctx, queue.EventConfigSaved, subject, comment)

	return nil
}

// publish failures are logged, the operation has already succeeded
func (e *Editor) publish(ctx context.Context, kind queue.EventKind, subject, comment string) {
	err := e.publisher.Publish(ctx, &queue.ConfigEvent{
		Kind:      kind,
		ProjectID: e.projectID.String(),
		Actor:     e.session.Actor().Username,
		Subject:   subject,
		Comment:   comment,
		At:        time.Now().UTC(),
	})
	if err != nil {
		logrus.Errorf("error publishing %s event: %v", kind, err)
	}
}
