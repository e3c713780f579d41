package provider

import "errors"

// classifies provider failures into the kinds the engine reacts to.

var (
	// ErrUnavailable marks listing failures. Without the current snapshot
	// set there is no safe way to proceed, so the engine treats it as fatal.
	ErrUnavailable = errors.New("snapshot provider unavailable")

	// ErrExists is returned by Create when the snapshot is already present.
	ErrExists = errors.New("snapshot already exists")

	// ErrNotFound is returned by Delete when the snapshot is missing.
	ErrNotFound = errors.New("snapshot not found")
)
