// Package id provides UUIDv7 generation for record identities.
// UUIDv7 is time-ordered, allowing natural sorting by creation time.
package id

import (
	"github.com/google/uuid"
)

// New generates a new UUIDv7 (time-ordered UUID).
func New() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// NewString generates a new UUIDv7 rendered as a string.
// Schemaless records store ids as plain strings.
func NewString() string {
	return New().String()
}
