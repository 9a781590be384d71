package utils

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		panic(fmt.Sprintf("parallel degree must be positive, have %d", ParallelDegree))
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// GetBucket returns the partition holding index kDim, or -1 when kDim is out
// of range
func (pm *PartitionMap) GetBucket(kDim int) (bucketNum, min, max int) {
	_, bucketNum, min, max = pm.getBucketWithTryCount(kDim)
	return
}

func (pm *PartitionMap) getBucketWithTryCount(kDim int) (tryCount, bucketNum, min, max int) {
	if kDim < 0 || kDim >= pm.MaxIndex {
		return 0, -1, 0, 0
	}
	// Initial guess
	bucketNum = int(float64(pm.ParallelDegree*kDim) / float64(pm.MaxIndex))
	for !(pm.Partitions[bucketNum][0] <= kDim && pm.Partitions[bucketNum][1] > kDim) {
		if pm.Partitions[bucketNum][0] > kDim {
			bucketNum--
		} else {
			bucketNum++
		}
		if bucketNum == -1 || bucketNum == pm.ParallelDegree {
			return 0, -1, 0, 0
		}
		tryCount++
	}
	min, max = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (kMax int) {
	if bn == -1 {
		kMax = pm.MaxIndex
		return
	}
	var (
		k1, k2 = pm.GetBucketRange(bn)
	)
	kMax = k2 - k1
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// This routine splits one dimension into c.ParallelDegree pieces, with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// ParallelDegreeFor resolves a requested parallel degree against the amount
// of work: zero means one partition per CPU, and there are never more
// partitions than items.
func ParallelDegreeFor(requested, maxIndex int) (NP int) {
	NP = requested
	if NP <= 0 {
		NP = runtime.NumCPU()
	}
	if NP > maxIndex {
		NP = maxIndex
	}
	if NP < 1 {
		NP = 1
	}
	return
}

// ParallelFor runs body once per partition of [0, maxIndex). Each body owns
// the half-open range [kMin, kMax) and should stop at its first error. When
// several partitions fail, the error of the lowest partition is returned, so
// the reported item is the lowest failing one.
func ParallelFor(ParallelDegree, maxIndex int,
	body func(np, kMin, kMax int) error) error {
	if maxIndex <= 0 {
		return nil
	}
	var (
		NP   = ParallelDegreeFor(ParallelDegree, maxIndex)
		pm   = NewPartitionMap(NP, maxIndex)
		errs = make([]error, NP)
		g    errgroup.Group
	)
	if NP == 1 {
		return body(0, 0, maxIndex)
	}
	for np := 0; np < NP; np++ {
		kMin, kMax := pm.GetBucketRange(np)
		g.Go(func() error {
			errs[np] = body(np, kMin, kMax)
			return errs[np]
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
