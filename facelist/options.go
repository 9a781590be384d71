package facelist

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/notargets/extfaces/mesh"
	"github.com/notargets/extfaces/utils"
)

// Topology is the read-only cell-to-point table faces are extracted from.
// mesh.CellSet satisfies it.
type Topology interface {
	NumCells() int
	NumPoints() int
	CellShape(cell int) mesh.Shape
	CellPoints(cell int) []int
}

// Algorithm selects the face matching strategy
type Algorithm uint8

const (
	HashCount Algorithm = iota // Parallel hash buckets resolved in place
	SerialMap                  // Single threaded map keyed on the canonical face key
)

func (a Algorithm) String() string {
	switch a {
	case HashCount:
		return "hash-count"
	case SerialMap:
		return "serial-map"
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hash-count", "hashcount":
		return HashCount, nil
	case "serial-map", "serialmap", "serial":
		return SerialMap, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q, want hash-count or serial-map", s)
}

// DefaultCacheThreshold is the largest bucket whose keys are cached while
// resolving duplicates
const DefaultCacheThreshold = 100

type Options struct {
	ParallelDegree int // 0 means one partition per CPU
	HashFunction   HashFunction
	HashTableSize  int // 0 means the mesh's point count
	CacheThreshold int // Buckets up to this size cache their keys, 0 disables
	MemoryOrder    utils.MemoryOrder
	Algorithm      Algorithm
	Logger         *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		HashFunction:   FNV1a,
		CacheThreshold: DefaultCacheThreshold,
		MemoryOrder:    utils.Relaxed,
		Algorithm:      HashCount,
	}
}

func (o Options) validate() error {
	switch {
	case o.ParallelDegree < 0:
		return fmt.Errorf("negative parallel degree %d", o.ParallelDegree)
	case o.HashTableSize < 0:
		return fmt.Errorf("negative hash table size %d", o.HashTableSize)
	case o.CacheThreshold < 0:
		return fmt.Errorf("negative cache threshold %d", o.CacheThreshold)
	case !o.HashFunction.Valid():
		return fmt.Errorf("invalid hash function %s", o.HashFunction)
	case !o.MemoryOrder.Valid():
		return fmt.Errorf("invalid memory order %s", o.MemoryOrder)
	case o.Algorithm != HashCount && o.Algorithm != SerialMap:
		return fmt.Errorf("invalid algorithm %s", o.Algorithm)
	}
	return nil
}

// tableSize is the number of hash buckets used for a mesh
func (o Options) tableSize(numPoints int) int {
	size := o.HashTableSize
	if size == 0 {
		size = numPoints
	}
	if size < 1 {
		size = 1
	}
	return size
}
