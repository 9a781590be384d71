package facelist

import (
	"slices"

	"github.com/james-bowman/sparse"

	"github.com/notargets/extfaces/mesh"
	"github.com/notargets/extfaces/types"
	"github.com/notargets/extfaces/utils"
)

// ExternalFaces is the boundary of a mesh as a CSR polygon set. Face i has
// shape Shapes[i], points Points.Group(i) in the owning cell's winding and
// belongs to cell CellIDs[i].
type ExternalFaces struct {
	NPoints int
	Shapes  []mesh.Shape
	Points  utils.CSR[int]
	CellIDs []int
}

func emptyExternalFaces(numPoints int) *ExternalFaces {
	return &ExternalFaces{
		NPoints: numPoints,
		Shapes:  []mesh.Shape{},
		Points:  utils.NewCSR([]int{0}, []int{}),
		CellIDs: []int{},
	}
}

func (ef *ExternalFaces) NumFaces() int { return len(ef.Shapes) }

func (ef *ExternalFaces) NumPoints() int { return ef.NPoints }

func (ef *ExternalFaces) FaceShape(face int) mesh.Shape { return ef.Shapes[face] }

func (ef *ExternalFaces) FacePoints(face int) []int { return ef.Points.Group(face) }

func (ef *ExternalFaces) Connectivity() []int { return ef.Points.Data }

func (ef *ExternalFaces) Offsets() []int { return ef.Points.Offsets }

// Keys returns the canonical key of every face, in face order
func (ef *ExternalFaces) Keys() (keys []types.FaceKey) {
	keys = make([]types.FaceKey, ef.NumFaces())
	for i := range keys {
		keys[i] = types.NewFaceKey(ef.FacePoints(i))
	}
	return
}

// ShapeCounts tallies the faces by shape
func (ef *ExternalFaces) ShapeCounts() map[mesh.Shape]int {
	counts := make(map[mesh.Shape]int)
	for _, s := range ef.Shapes {
		counts[s]++
	}
	return counts
}

// BoundaryPoints lists the distinct points used by the faces, ascending
func (ef *ExternalFaces) BoundaryPoints() []int {
	pts := slices.Clone(ef.Points.Data)
	slices.Sort(pts)
	return slices.Compact(pts)
}

// PointIncidence returns the face by point incidence matrix, with a one
// wherever a face uses a point. It is nil when there are no faces or points.
func (ef *ExternalFaces) PointIncidence() *sparse.CSR {
	if ef.NumFaces() == 0 || ef.NPoints == 0 {
		return nil
	}
	var (
		ia   = slices.Clone(ef.Points.Offsets)
		ja   = slices.Clone(ef.Points.Data)
		data = make([]float64, len(ja))
	)
	for i := 0; i < ef.NumFaces(); i++ {
		slices.Sort(ja[ia[i]:ia[i+1]])
	}
	for i := range data {
		data[i] = 1
	}
	return sparse.NewCSR(ef.NumFaces(), ef.NPoints, ia, ja, data)
}
