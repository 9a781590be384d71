package facelist

import (
	"fmt"

	"github.com/notargets/extfaces/mesh"
)

// UnsupportedShapeError reports a cell whose shape has no face table
type UnsupportedShapeError struct {
	CellID int
	Shape  mesh.Shape
}

func (e *UnsupportedShapeError) Error() string {
	if e.Shape.Known() {
		return fmt.Sprintf("cell %d: faces of shape %s are not supported", e.CellID, e.Shape)
	}
	return fmt.Sprintf("cell %d: unknown shape tag %d", e.CellID, uint8(e.Shape))
}

// FaceIndexError reports a face point that cannot be resolved against the
// point list of its cell
type FaceIndexError struct {
	CellID       int
	FaceID       int
	PointOrdinal int
	Reason       string
}

func (e *FaceIndexError) Error() string {
	return fmt.Sprintf("cell %d face %d point %d: %s",
		e.CellID, e.FaceID, e.PointOrdinal, e.Reason)
}
