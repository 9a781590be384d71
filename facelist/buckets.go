package facelist

import (
	"fmt"

	"github.com/notargets/extfaces/utils"
)

// faceRef addresses local face `face` of cell `cell`
type faceRef struct {
	cell, face int
}

// hashFaces computes the bucket of every face, stored in the cell grouped
// layout given by faceOffsets
func hashFaces(topo Topology, ParallelDegree int, faceOffsets []int,
	hf HashFunction, tableSize int, hashes []int) error {
	return utils.ParallelFor(ParallelDegree, topo.NumCells(), func(_, kMin, kMax int) error {
		for c := kMin; c < kMax; c++ {
			base := faceOffsets[c]
			for f := 0; f < cellFaces(faceOffsets, c); f++ {
				key, err := faceKey(topo, c, f)
				if err != nil {
					return err
				}
				hashes[base+f] = hf.Bucket(key, tableSize)
			}
		}
		return nil
	})
}

// countBuckets adds one to the counter of every face's bucket
func countBuckets(ParallelDegree int, hashes []int, counters *utils.AtomicArray,
	order utils.MemoryOrder) {
	_ = utils.ParallelFor(ParallelDegree, len(hashes), func(_, kMin, kMax int) error {
		for _, h := range hashes[kMin:kMax] {
			counters.FetchAdd(h, 1, order)
		}
		return nil
	})
}

/*
fillBuckets scatters every face into its bucket. The counters arrive holding
each bucket's size and are used as descending write cursors, so each face
claims a distinct slot and every counter ends at zero.
*/
func fillBuckets(ParallelDegree int, faceOffsets, hashes []int, counters *utils.AtomicArray,
	order utils.MemoryOrder, bucketOffsets []int, refs []faceRef) error {
	return utils.ParallelFor(ParallelDegree, len(faceOffsets)-1, func(_, kMin, kMax int) error {
		for c := kMin; c < kMax; c++ {
			base := faceOffsets[c]
			for f := 0; f < cellFaces(faceOffsets, c); f++ {
				h := hashes[base+f]
				slot := counters.FetchAdd(h, -1, order) - 1
				if slot < 0 {
					return fmt.Errorf("bucket %d overfilled by cell %d face %d", h, c, f)
				}
				refs[bucketOffsets[h]+int(slot)] = faceRef{cell: c, face: f}
			}
		}
		return nil
	})
}

// buildBuckets groups all faces by hash. It returns the buckets and their
// sizes.
func (r *run) buildBuckets(topo Topology, faceOffsets []int, numFaces, tableSize int) (
	buckets utils.CSR[faceRef], counts []int64, err error) {
	var (
		pd            = r.opts.ParallelDegree
		order         = r.opts.MemoryOrder
		hashes        = make([]int, numFaces)
		counters      = utils.NewAtomicArray(tableSize)
		bucketOffsets []int
		refs          = make([]faceRef, numFaces)
	)
	if err = r.stage(StageFaceHash, func() error {
		return hashFaces(topo, pd, faceOffsets, r.opts.HashFunction, tableSize, hashes)
	}); err != nil {
		return
	}
	_ = r.stage(StageNumFacesPerHash, func() error {
		countBuckets(pd, hashes, counters, order)
		return nil
	})
	if err = r.stage(StageFacePerHashCount, func() error {
		var total int
		counts = counters.Snapshot()
		bucketOffsets, total = utils.OffsetsFromCounts(pd, counts)
		if total != numFaces {
			return fmt.Errorf("buckets hold %d faces, expected %d", total, numFaces)
		}
		return nil
	}); err != nil {
		return
	}
	if err = r.stage(StageBuildFacesPerHash, func() error {
		return fillBuckets(pd, faceOffsets, hashes, counters, order, bucketOffsets, refs)
	}); err != nil {
		return
	}
	buckets = utils.NewCSR(bucketOffsets, refs)
	return
}
