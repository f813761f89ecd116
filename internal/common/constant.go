// Package common contains shared constants and sentinel errors used across
// StarKeeper components.
package common

const (
	// GuestAccountID is the reserved account value meaning "no remote
	// account; operate purely locally".
	GuestAccountID = "guest"

	// StorageKey is the key of the on-device blob holding the full star
	// collection.
	StorageKey = "star_mastery_data_v1"

	// InlineImagePrefix marks a self-contained (data URL) image.
	InlineImagePrefix = "data:"
)
