// ABOUTME: Commands accepted by the point store
// ABOUTME: Constructors normalize caller-supplied locations at the boundary

package points

import "github.com/harper/pointedit/internal/models"

// Command type names.
const (
	TypeAddPoint    = "ADD_POINT"
	TypeDeletePoint = "DELETE_POINT"
	TypeMovePoint   = "MOVE_POINT"
	TypeLabelPoint  = "LABEL_POINT"
)

// Command is an intent to change the point collection.
type Command interface {
	Type() string
}

// AddPoint appends a point with a default label.
type AddPoint struct {
	Location models.Location
}

// DeletePoint removes the point at Index.
type DeletePoint struct {
	Index int
}

// MovePoint replaces the location of the point at Index.
type MovePoint struct {
	Index    int
	Location models.Location
}

// LabelPoint replaces the label of the point at Index.
type LabelPoint struct {
	Index int
	Label string
}

func (AddPoint) Type() string    { return TypeAddPoint }
func (DeletePoint) Type() string { return TypeDeletePoint }
func (MovePoint) Type() string   { return TypeMovePoint }
func (LabelPoint) Type() string  { return TypeLabelPoint }

// NewAddPoint builds an AddPoint from either location shape.
func NewAddPoint(in models.LocationInput) (AddPoint, error) {
	loc, err := in.Normalize()
	if err != nil {
		return AddPoint{}, err
	}
	return AddPoint{Location: loc}, nil
}

// NewMovePoint builds a MovePoint from either location shape.
func NewMovePoint(index int, in models.LocationInput) (MovePoint, error) {
	loc, err := in.Normalize()
	if err != nil {
		return MovePoint{}, err
	}
	return MovePoint{Index: index, Location: loc}, nil
}

// NewDeletePoint builds a DeletePoint.
func NewDeletePoint(index int) DeletePoint {
	return DeletePoint{Index: index}
}

// NewLabelPoint builds a LabelPoint.
func NewLabelPoint(index int, label string) LabelPoint {
	return LabelPoint{Index: index, Label: label}
}

// IsMutation reports whether cmd is one of the commands that change a collection.
func IsMutation(cmd Command) bool {
	switch cmd.(type) {
	case AddPoint, DeletePoint, MovePoint, LabelPoint:
		return true
	default:
		return false
	}
}
