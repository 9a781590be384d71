package facelist

import (
	"github.com/notargets/extfaces/types"
)

type serialFace struct {
	cell, face int
	count      int // Number of cells carrying the face
}

// serialMatch finds the external faces with a single map keyed on the
// canonical face key. A face is external when exactly one cell carries it,
// and faces are listed in order of first appearance.
func (r *run) serialMatch(topo Topology, faceOffsets []int) (cellIDs, faceIDs []int, err error) {
	var (
		faces   []serialFace
		faceMap = make(map[types.FaceKey]int, faceOffsets[len(faceOffsets)-1]/2)
	)
	if err = r.stage(StageFaceCounts, func() error {
		for c := 0; c < topo.NumCells(); c++ {
			for f := 0; f < cellFaces(faceOffsets, c); f++ {
				key, err := faceKey(topo, c, f)
				if err != nil {
					return err
				}
				if faceID, exists := faceMap[key]; exists {
					// Face already exists - this is an interior face
					faces[faceID].count++
				} else {
					faceMap[key] = len(faces)
					faces = append(faces, serialFace{cell: c, face: f, count: 1})
				}
			}
		}
		return nil
	}); err != nil {
		return
	}
	_ = r.stage(StageScatterCullInternalFaces, func() error {
		for _, sf := range faces {
			if sf.count == 1 {
				cellIDs = append(cellIDs, sf.cell)
				faceIDs = append(faceIDs, sf.face)
			}
		}
		return nil
	})
	return
}
