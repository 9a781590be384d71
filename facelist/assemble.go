package facelist

import (
	"fmt"

	"github.com/notargets/extfaces/mesh"
	"github.com/notargets/extfaces/utils"
)

// gatherExternal copies the external prefix of every bucket into one list
// of (cell, local face) pairs, bucket by bucket
func (r *run) gatherExternal(buckets utils.CSR[faceRef], external []int) (cellIDs, faceIDs []int) {
	_ = r.stage(StageScatterCullInternalFaces, func() error {
		pd := r.opts.ParallelDegree
		outOffsets, numExternal := utils.OffsetsFromCounts(pd, external)
		cellIDs = make([]int, numExternal)
		faceIDs = make([]int, numExternal)
		return utils.ParallelFor(pd, buckets.NumGroups(), func(_, kMin, kMax int) error {
			for b := kMin; b < kMax; b++ {
				out := outOffsets[b]
				for i, ref := range buckets.Group(b)[:external[b]] {
					cellIDs[out+i] = ref.cell
					faceIDs[out+i] = ref.face
				}
			}
			return nil
		})
	})
	return
}

// assemble builds the output face mesh for the listed faces. Face i is local
// face faceIDs[i] of cell cellIDs[i].
func (r *run) assemble(topo Topology, cellIDs, faceIDs []int) (ef *ExternalFaces, err error) {
	var (
		pd          = r.opts.ParallelDegree
		numFaces    = len(cellIDs)
		shapes      = make([]mesh.Shape, numFaces)
		pointCounts = make([]int, numFaces)
		offsets     []int
		conn        []int
	)
	if err = r.stage(StagePointsPerFace, func() error {
		return utils.ParallelFor(pd, numFaces, func(_, kMin, kMax int) error {
			for i := kMin; i < kMax; i++ {
				var (
					cell, face = cellIDs[i], faceIDs[i]
					shape      = topo.CellShape(cell)
				)
				n, ok := shape.FaceNumPoints(face)
				if !ok {
					return &FaceIndexError{CellID: cell, FaceID: face, PointOrdinal: -1,
						Reason: fmt.Sprintf("shape %s has no face %d", shape, face)}
				}
				shapes[i], _ = shape.FaceShape(face)
				pointCounts[i] = n
			}
			return nil
		})
	}); err != nil {
		return
	}
	_ = r.stage(StageFacePointCount, func() error {
		var total int
		offsets, total = utils.OffsetsFromCounts(pd, pointCounts)
		conn = make([]int, total)
		return nil
	})
	if err = r.stage(StageBuildConnectivity, func() error {
		return utils.ParallelFor(pd, numFaces, func(_, kMin, kMax int) error {
			for i := kMin; i < kMax; i++ {
				var (
					cell, face = cellIDs[i], faceIDs[i]
					shape      = topo.CellShape(cell)
					points     = topo.CellPoints(cell)
					out        = conn[offsets[i]:offsets[i+1]]
				)
				for j := range out {
					p, perr := facePoint(cell, face, j, shape, points)
					if perr != nil {
						return perr
					}
					out[j] = p
				}
			}
			return nil
		})
	}); err != nil {
		return
	}
	ef = &ExternalFaces{
		NPoints: topo.NumPoints(),
		Shapes:  shapes,
		Points:  utils.NewCSR(offsets, conn),
		CellIDs: cellIDs,
	}
	return
}
