// ABOUTME: Point store reducer
// ABOUTME: Applies commands to an ordered point collection without mutating it

// Package points holds the pure state transition over a point collection.
//
// Points are identified by position only. Deleting index i shifts every
// later point down by one, so callers holding indices must re-resolve them
// after any delete.
package points

import (
	"errors"
	"fmt"

	"github.com/harper/pointedit/internal/models"
)

// ErrIndexOutOfRange is returned when a command addresses a position
// outside the collection.
var ErrIndexOutOfRange = errors.New("point index out of range")

// Apply returns the collection that results from applying cmd to current.
// current is never modified. Unrecognized commands return current unchanged.
func Apply(current models.Collection, cmd Command) (models.Collection, error) {
	switch c := cmd.(type) {
	case AddPoint:
		if !c.Location.Finite() {
			return current, fmt.Errorf("add point: %w", models.ErrInvalidLocation)
		}
		next := make(models.Collection, len(current), len(current)+1)
		copy(next, current)
		return append(next, models.Point{
			Location: c.Location,
			Label:    models.DefaultLabel(len(current)),
		}), nil

	case DeletePoint:
		if err := checkIndex(current, c.Index); err != nil {
			return current, fmt.Errorf("delete point: %w", err)
		}
		next := make(models.Collection, 0, len(current)-1)
		next = append(next, current[:c.Index]...)
		return append(next, current[c.Index+1:]...), nil

	case MovePoint:
		if err := checkIndex(current, c.Index); err != nil {
			return current, fmt.Errorf("move point: %w", err)
		}
		if !c.Location.Finite() {
			return current, fmt.Errorf("move point: %w", models.ErrInvalidLocation)
		}
		next := current.Clone()
		next[c.Index].Location = c.Location
		return next, nil

	case LabelPoint:
		if err := checkIndex(current, c.Index); err != nil {
			return current, fmt.Errorf("label point: %w", err)
		}
		next := current.Clone()
		next[c.Index].Label = c.Label
		return next, nil

	default:
		return current, nil
	}
}

// ApplyAll folds cmds over current, stopping at the first error.
func ApplyAll(current models.Collection, cmds ...Command) (models.Collection, error) {
	var err error
	for _, cmd := range cmds {
		current, err = Apply(current, cmd)
		if err != nil {
			return current, err
		}
	}
	return current, nil
}

func checkIndex(c models.Collection, index int) error {
	if !c.InRange(index) {
		return fmt.Errorf("%w: %d (have %d points)", ErrIndexOutOfRange, index, len(c))
	}
	return nil
}
