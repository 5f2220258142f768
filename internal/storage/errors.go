// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across storage implementations

package storage

import "errors"

// ErrCorrupt is returned when the stored collection cannot be decoded.
var ErrCorrupt = errors.New("stored points are corrupt")

// ErrUnknownBackend is returned when a backend name has no implementation.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrDestinationNotEmpty is returned when a migration would overwrite existing points.
var ErrDestinationNotEmpty = errors.New("destination already holds points")
