package facelist

import (
	"github.com/notargets/extfaces/types"
	"github.com/notargets/extfaces/utils"
)

/*
resolveBucket finds the faces of one bucket that no other face matches and
moves every matched pair to the tail, leaving the external faces in front.
It returns the number of external faces.

Entries are walked from the tail down. Each unmatched entry is compared with
the unmatched entries before it and the scan stops at the first equal key,
so a face shared by three cells leaves one of its copies counted as
external. When keys is non nil it holds the key of every entry and is
permuted along with refs.
*/
func resolveBucket(refs []faceRef, keys []types.FaceKey,
	keyOf func(faceRef) (types.FaceKey, error)) (external int, err error) {
	var (
		n = len(refs)
	)
	if n < 2 {
		return n, nil
	}
	keyAt := func(i int) (types.FaceKey, error) {
		if keys != nil {
			return keys[i], nil
		}
		return keyOf(refs[i])
	}
	swap := func(i, j int) {
		if i == j {
			return
		}
		refs[i], refs[j] = refs[j], refs[i]
		if keys != nil {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	var (
		myKey, otherKey types.FaceKey
		dup             = n - 1 // Entries above dup are matched
	)
	external = n
	for my := dup; my >= 1; my = min(my-1, dup) {
		if myKey, err = keyAt(my); err != nil {
			return
		}
		for other := my - 1; other >= 0; other-- {
			if otherKey, err = keyAt(other); err != nil {
				return
			}
			if myKey == otherKey {
				external -= 2
				swap(dup, my)
				dup--
				swap(dup, other)
				dup--
				break
			}
		}
	}
	return
}

// resolveBuckets resolves every bucket and records its external count
func (r *run) resolveBuckets(topo Topology, buckets utils.CSR[faceRef], external []int) error {
	var (
		threshold = r.opts.CacheThreshold
		keyOf     = func(ref faceRef) (types.FaceKey, error) {
			return faceKey(topo, ref.cell, ref.face)
		}
	)
	return utils.ParallelFor(r.opts.ParallelDegree, buckets.NumGroups(), func(_, kMin, kMax int) error {
		var scratch []types.FaceKey
		if threshold > 0 {
			scratch = make([]types.FaceKey, threshold)
		}
		for b := kMin; b < kMax; b++ {
			var (
				refs = buckets.Group(b)
				keys []types.FaceKey
				err  error
			)
			if len(refs) >= 2 && len(refs) <= threshold {
				keys = scratch[:len(refs)]
				for i, ref := range refs {
					if keys[i], err = keyOf(ref); err != nil {
						return err
					}
				}
			}
			if external[b], err = resolveBucket(refs, keys, keyOf); err != nil {
				return err
			}
		}
		return nil
	})
}
