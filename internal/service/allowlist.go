package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/emrgen/shazam/internal/host"
	"github.com/emrgen/shazam/internal/model"
	"github.com/emrgen/shazam/internal/store"
	"github.com/sirupsen/logrus"
)

// JavascriptEditors is the allowlist of users who may edit override
// javascript without being privileged. It is stored apart from the config
// document and is not part of its backups.
type JavascriptEditors struct {
	settings store.Settings
	actor    host.Actor
	// grants enables the allowlist; when off only privileged users edit javascript.
	grants bool
}

func NewJavascriptEditors(settings store.Settings, actor host.Actor, grantsEnabled bool) *JavascriptEditors {
	return &JavascriptEditors{
		settings: settings,
		actor:    actor,
		grants:   grantsEnabled,
	}
}

// List returns the allowlisted usernames in the order they were granted.
func (j *JavascriptEditors) List(ctx context.Context) ([]string, error) {
	if !j.grants {
		return []string{}, nil
	}

	raw, _, err := j.settings.GetSetting(ctx, store.KeyJSEditors)
	if err != nil {
		return nil, fmt.Errorf("load javascript editors: %w", err)
	}

	users := []string{}
	if strings.TrimSpace(raw) == "" || strings.TrimSpace(raw) == "null" {
		return users, nil
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("%w: javascript editors: %v", model.ErrInvalidDocument, err)
	}
	if users == nil {
		users = []string{}
	}

	return users, nil
}

// CanEditJavascript reports whether actor may change override javascript.
func (j *JavascriptEditors) CanEditJavascript(ctx context.Context, actor host.Actor) (bool, error) {
	if actor.Privileged {
		return true, nil
	}

	users, err := j.List(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(users, actor.Username), nil
}

// Grant adds username to the allowlist. It reports false when the user was
// already listed.
func (j *JavascriptEditors) Grant(ctx context.Context, username string) (bool, error) {
	if err := j.authorize("add", username); err != nil {
		return false, err
	}

	users, err := j.List(ctx)
	if err != nil {
		return false, err
	}

	if slices.Contains(users, username) {
		logrus.Warnf("username %s is already a javascript editor", username)
		return false, nil
	}

	if err := j.write(ctx, append(users, username)); err != nil {
		return false, err
	}
	logrus.Infof("%s granted javascript permissions to %s", j.actor.Username, username)

	return true, nil
}

// Revoke removes username from the allowlist. It reports false when the user
// was not listed.
func (j *JavascriptEditors) Revoke(ctx context.Context, username string) (bool, error) {
	if err := j.authorize("remove", username); err != nil {
		return false, err
	}

	users, err := j.List(ctx)
	if err != nil {
		return false, err
	}

	i := slices.Index(users, username)
	if i < 0 {
		logrus.Warnf("javascript editors do not contain %s", username)
		return false, nil
	}

	if err := j.write(ctx, slices.Delete(users, i, i+1)); err != nil {
		return false, err
	}
	logrus.Infof("%s removed javascript permissions from %s", j.actor.Username, username)

	return true, nil
}

func (j *JavascriptEditors) authorize(action, username string) error {
	if !j.actor.Privileged || !j.grants {
		logrus.Errorf("user %s attempting to %s javascript editor %s but is not permitted", j.actor.Username, action, username)
		return fmt.Errorf("%w: %s javascript editor", ErrPermissionDenied, action)
	}

	if strings.TrimSpace(username) == "" {
		return ErrInvalidUsername
	}

	return nil
}

func (j *JavascriptEditors) write(ctx context.Context, users []string) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}

	if err := j.settings.SetSetting(ctx, store.KeyJSEditors, string(raw)); err != nil {
		return fmt.Errorf("save javascript editors: %w", err)
	}

	return nil
}
