// ABOUTME: Charm KV storage implementation for point collections
// ABOUTME: Cloud-synced key-value store with local reads

package storage

import (
	"context"
	"fmt"

	"github.com/harper/pointedit/internal/charm"
	"github.com/harper/pointedit/internal/models"
)

// CharmStore implements Store on Charm KV.
type CharmStore struct {
	client *charm.Client
}

// Compile-time checks for the interfaces CharmStore implements.
var (
	_ Store    = (*CharmStore)(nil)
	_ Syncer   = (*CharmStore)(nil)
	_ Resetter = (*CharmStore)(nil)
)

// NewCharmStore wraps a charm client.
func NewCharmStore(client *charm.Client) *CharmStore {
	return &CharmStore{client: client}
}

// Load reads the collection.
func (s *CharmStore) Load(ctx context.Context) (models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.client.Get([]byte(Key))
	if charm.IsMissing(err) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get points: %w", err)
	}
	return Decode(data)
}

// Save replaces the stored collection.
func (s *CharmStore) Save(ctx context.Context, points models.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(points)
	if err != nil {
		return err
	}
	if err := s.client.Set([]byte(Key), data); err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	return nil
}

// Sync pushes and pulls changes with the charm server.
func (s *CharmStore) Sync() error {
	return s.client.Sync()
}

// Reset drops the local copy and pulls the collection from the charm server.
func (s *CharmStore) Reset() error {
	if err := s.client.Reset(); err != nil {
		return fmt.Errorf("reset points: %w", err)
	}
	return nil
}

// Close is a no-op; connections are opened per operation.
func (s *CharmStore) Close() error {
	return nil
}
