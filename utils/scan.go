package utils

import "fmt"

// Integer is the set of element types the scans accept as counts
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Below this many counts a scan is cheaper serially than fanned out
const serialScanLimit = 1 << 14

// ExclusiveScan converts counts into CSR offsets: offsets[i] is the sum of
// counts[:i] and offsets[len(counts)] is the total, which is also returned.
// offsets must have len(counts)+1 entries.
func ExclusiveScan[T Integer](ParallelDegree int, counts []T, offsets []int) (total int) {
	if len(offsets) != len(counts)+1 {
		panic(fmt.Sprintf("offsets length %d does not match %d counts",
			len(offsets), len(counts)))
	}
	var (
		n = len(counts)
	)
	if n < serialScanLimit || ParallelDegreeFor(ParallelDegree, n) == 1 {
		for i, c := range counts {
			offsets[i] = total
			total += int(c)
		}
		offsets[n] = total
		return
	}
	var (
		NP   = ParallelDegreeFor(ParallelDegree, n)
		sums = make([]int, NP+1)
	)
	// First pass: per partition totals
	_ = ParallelFor(NP, n, func(np, kMin, kMax int) error {
		var s int
		for _, c := range counts[kMin:kMax] {
			s += int(c)
		}
		sums[np+1] = s
		return nil
	})
	for np := 1; np <= NP; np++ {
		sums[np] += sums[np-1]
	}
	// Second pass: each partition scans from its base
	_ = ParallelFor(NP, n, func(np, kMin, kMax int) error {
		run := sums[np]
		for i := kMin; i < kMax; i++ {
			offsets[i] = run
			run += int(counts[i])
		}
		return nil
	})
	total = sums[NP]
	offsets[n] = total
	return
}

// OffsetsFromCounts allocates and returns the exclusive scan of counts
func OffsetsFromCounts[T Integer](ParallelDegree int, counts []T) (offsets []int, total int) {
	offsets = make([]int, len(counts)+1)
	total = ExclusiveScan(ParallelDegree, counts, offsets)
	return
}
