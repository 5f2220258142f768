// ABOUTME: Store interface for point collection persistence
// ABOUTME: The whole collection is encoded as JSON under a single key

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/pointedit/internal/models"
)

// Key is the single key the collection is stored under.
const Key = "points"

// Backend names.
const (
	BackendBadger   = "badger"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendCharm    = "charm"
	BackendFile     = "file"
)

// Backends lists every supported backend name.
var Backends = []string{BackendBadger, BackendSQLite, BackendPostgres, BackendRedis, BackendCharm, BackendFile}

// Store persists a point collection.
// Load returns an empty collection when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (models.Collection, error)
	Save(ctx context.Context, points models.Collection) error
	Close() error
}

// Syncer is implemented by stores that replicate to a remote server.
type Syncer interface {
	Sync() error
}

// Resetter is implemented by stores that can discard local data and
// refetch it from their remote.
type Resetter interface {
	Reset() error
}

// Encode serializes a collection. A nil collection encodes as an empty list.
func Encode(points models.Collection) ([]byte, error) {
	if points == nil {
		points = models.Collection{}
	}
	data, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("encode points: %w", err)
	}
	return data, nil
}

// Decode parses a stored collection. Empty input decodes as an empty collection.
func Decode(data []byte) (models.Collection, error) {
	if len(data) == 0 {
		return models.Collection{}, nil
	}
	var points models.Collection
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if points == nil {
		points = models.Collection{}
	}
	return points, nil
}
