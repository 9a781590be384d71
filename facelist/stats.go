package facelist

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BucketStats describes how evenly a hash function spread the faces
type BucketStats struct {
	NumBuckets    int     `json:"num_buckets"`
	NonEmpty      int     `json:"non_empty"`
	MeanSize      float64 `json:"mean_size"`
	StdDevSize    float64 `json:"stddev_size"`
	MaxSize       int     `json:"max_size"`
	EmptyFraction float64 `json:"empty_fraction"`
	Cached        int     `json:"cached"`   // Buckets resolved from cached keys
	Uncached      int     `json:"uncached"` // Buckets that recompute keys on every compare
}

func newBucketStats(counts []int64, cacheThreshold int) (bs BucketStats) {
	bs.NumBuckets = len(counts)
	if bs.NumBuckets == 0 {
		return
	}
	sizes := make([]float64, len(counts))
	for i, c := range counts {
		sizes[i] = float64(c)
		switch {
		case c == 0:
			continue
		case c < 2:
		case c <= int64(cacheThreshold):
			bs.Cached++
		default:
			bs.Uncached++
		}
		bs.NonEmpty++
	}
	if len(sizes) > 1 {
		bs.MeanSize, bs.StdDevSize = stat.MeanStdDev(sizes, nil)
	} else {
		bs.MeanSize = sizes[0]
	}
	bs.MaxSize = int(floats.Max(sizes))
	bs.EmptyFraction = float64(bs.NumBuckets-bs.NonEmpty) / float64(bs.NumBuckets)
	return
}
