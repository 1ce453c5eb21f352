package service

import (
	"errors"

	"github.com/emrgen/shazam/internal/model"
)

var (
	// ErrBackupNotFound is returned when restoring a timestamp with no (or an empty) backup.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrFieldNotFound is returned when an operation names a field that is not configured.
	ErrFieldNotFound = errors.New("field not configured")
	// ErrFieldExists is returned when creating a field that is already configured.
	ErrFieldExists = errors.New("field already configured")
	// ErrPermissionDenied is returned when the actor may not perform the operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotLoaded is returned when the session document is used before Load.
	ErrNotLoaded = errors.New("config not loaded")
	// ErrInvalidUsername is returned when granting or revoking an empty username.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidDocument is returned when stored settings cannot be decoded.
	ErrInvalidDocument = model.ErrInvalidDocument
)
