package model

import "errors"

var (
	// ErrInvalidDocument is returned when a stored document does not have the expected shape.
	ErrInvalidDocument = errors.New("invalid config document")
)
