package facelist

import (
	"github.com/notargets/extfaces/utils"
)

// countFaces fills the number of faces of every cell. Cells of dimension
// below three have none.
func countFaces(topo Topology, ParallelDegree int, counts []int) error {
	return utils.ParallelFor(ParallelDegree, len(counts), func(_, kMin, kMax int) error {
		for c := kMin; c < kMax; c++ {
			shape := topo.CellShape(c)
			n, ok := shape.NumFaces()
			if !ok {
				return &UnsupportedShapeError{CellID: c, Shape: shape}
			}
			counts[c] = n
		}
		return nil
	})
}

// FaceOffsets returns the start of each cell's faces in the cell grouped
// face layout, with the total number of faces F as the trailing entry
func FaceOffsets(topo Topology, ParallelDegree int) (offsets []int, numFaces int, err error) {
	counts := make([]int, topo.NumCells())
	if err = countFaces(topo, ParallelDegree, counts); err != nil {
		return
	}
	offsets, numFaces = utils.OffsetsFromCounts(ParallelDegree, counts)
	return
}

// cellFaces returns the number of faces of cell c from the face offsets
func cellFaces(faceOffsets []int, c int) int { return faceOffsets[c+1] - faceOffsets[c] }
