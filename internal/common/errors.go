// Package common defines shared constants and sentinel errors used across
// StarKeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors.
	ErrEmptyName   = errors.New("name is required")
	ErrEmptyIDList = errors.New("empty id list")
	ErrInvalidXP   = errors.New("xp must not be negative")
)
