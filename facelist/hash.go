package facelist

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-farm"

	"github.com/notargets/extfaces/mesh"
	"github.com/notargets/extfaces/types"
)

// HashFunction selects how a canonical face key is mapped to a bucket
type HashFunction uint8

const (
	FNV1a    HashFunction = iota // 32 bit FNV-1a over the key's words
	MinPoint                     // The key's smallest point index
	Farm                         // FarmHash64 of the key bytes
	XXHash                       // xxHash64 of the key bytes
)

var hashFunctionNames = [...]string{"fnv1a", "minpoint", "farm", "xxhash"}

func (hf HashFunction) String() string {
	if int(hf) < len(hashFunctionNames) {
		return hashFunctionNames[hf]
	}
	return fmt.Sprintf("HashFunction(%d)", uint8(hf))
}

func (hf HashFunction) Valid() bool { return int(hf) < len(hashFunctionNames) }

func ParseHashFunction(s string) (HashFunction, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	switch label {
	case "", "fnv", "fnv-1a":
		return FNV1a, nil
	case "minpointid", "min":
		return MinPoint, nil
	}
	for i, name := range hashFunctionNames {
		if label == name {
			return HashFunction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hash function %q, want one of %s",
		s, strings.Join(hashFunctionNames[:], ", "))
}

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// fnv1aWords hashes whole 32 bit words, one xor-multiply round per word
func fnv1aWords(words [6]uint32) uint32 {
	h := fnvOffset32
	for _, w := range words {
		h ^= w
		h *= fnvPrime32
	}
	return h
}

// Sum hashes a key. The result depends on nothing but the key.
func (hf HashFunction) Sum(key types.FaceKey) uint64 {
	switch hf {
	case MinPoint:
		return uint64(key[0])
	case Farm:
		b := key.Bytes()
		return farm.Hash64(b[:])
	case XXHash:
		b := key.Bytes()
		return xxhash.Sum64(b[:])
	default:
		return uint64(fnv1aWords(key.Words()))
	}
}

// Bucket reduces the key's hash to a slot of a table with tableSize entries
func (hf HashFunction) Bucket(key types.FaceKey, tableSize int) int {
	return int(hf.Sum(key) % uint64(tableSize))
}

// faceKey builds the canonical key of local face `face` of cell `cell`
func faceKey(topo Topology, cell, face int) (key types.FaceKey, err error) {
	var (
		shape   = topo.CellShape(cell)
		points  = topo.CellPoints(cell)
		scratch [mesh.MaxFacePoints]int
	)
	np, ok := shape.FaceNumPoints(face)
	if !ok {
		return key, &FaceIndexError{CellID: cell, FaceID: face, PointOrdinal: -1,
			Reason: fmt.Sprintf("shape %s has no face %d", shape, face)}
	}
	if np > len(scratch) || np < 3 {
		return key, &FaceIndexError{CellID: cell, FaceID: face, PointOrdinal: -1,
			Reason: fmt.Sprintf("face has %d points", np)}
	}
	for i := 0; i < np; i++ {
		if scratch[i], err = facePoint(cell, face, i, shape, points); err != nil {
			return
		}
	}
	return types.NewFaceKey(scratch[:np]), nil
}

// facePoint resolves point `ordinal` of a local face to a global point index
func facePoint(cell, face, ordinal int, shape mesh.Shape, points []int) (int, error) {
	local, ok := shape.FaceLocalIndex(face, ordinal)
	if !ok {
		return 0, &FaceIndexError{CellID: cell, FaceID: face, PointOrdinal: ordinal,
			Reason: fmt.Sprintf("shape %s has no point %d on face %d", shape, ordinal, face)}
	}
	if local >= len(points) {
		return 0, &FaceIndexError{CellID: cell, FaceID: face, PointOrdinal: ordinal,
			Reason: fmt.Sprintf("local index %d beyond the cell's %d points", local, len(points))}
	}
	return points[local], nil
}
