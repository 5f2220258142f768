// ABOUTME: Data migration between point storage backends
// ABOUTME: Copies the collection from a source store to a destination store

package storage

import (
	"context"
	"fmt"
)

// MigrateSummary holds counts of migrated points.
type MigrateSummary struct {
	Points int
}

// MigrateData copies the collection from src to dst.
// Unless overwrite is set, the destination must not hold any points yet.
func MigrateData(ctx context.Context, src, dst Store, overwrite bool) (*MigrateSummary, error) {
	points, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}

	if !overwrite {
		existing, err := dst.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load destination: %w", err)
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("%w (%d points)", ErrDestinationNotEmpty, len(existing))
		}
	}

	if err := dst.Save(ctx, points); err != nil {
		return nil, fmt.Errorf("save destination: %w", err)
	}

	return &MigrateSummary{Points: len(points)}, nil
}
