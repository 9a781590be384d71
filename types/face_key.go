package types

import (
	"encoding/binary"
	"fmt"
)

/*
FaceKey is the canonical identity of a polygonal face. It holds the smallest point index of the face followed by the
two points adjacent to it around the face, smaller one first. Two faces made of the same points produce the same key
regardless of winding or starting vertex, so the key can be compared and hashed without sorting the whole face.
For a triangle the key is its three points in ascending order.
*/
type FaceKey [3]int

func NewFaceKey(points []int) (fk FaceKey) {
	var (
		n = len(points)
	)
	if n < 3 {
		panic(fmt.Errorf("a face needs at least 3 points to have a key, have %d", n))
	}
	var minI int
	for i := 1; i < n; i++ {
		if points[i] < points[minI] {
			minI = i
		}
	}
	var (
		prev = points[(minI+n-1)%n]
		next = points[(minI+1)%n]
	)
	fk[0] = points[minI]
	if prev <= next {
		fk[1], fk[2] = prev, next
	} else {
		fk[1], fk[2] = next, prev
	}
	return
}

func (fk FaceKey) Less(other FaceKey) bool {
	for i := 0; i < 3; i++ {
		if fk[i] != other[i] {
			return fk[i] < other[i]
		}
	}
	return false
}

// Words splits the key into six 32 bit words, low half first for each index
func (fk FaceKey) Words() (w [6]uint32) {
	for i, v := range fk {
		u := uint64(v)
		w[2*i] = uint32(u)
		w[2*i+1] = uint32(u >> 32)
	}
	return
}

// Bytes is the little endian encoding of the key's indices
func (fk FaceKey) Bytes() (b [24]byte) {
	for i, v := range fk {
		binary.LittleEndian.PutUint64(b[8*i:], uint64(v))
	}
	return
}

func (fk FaceKey) String() string {
	return fmt.Sprintf("(%d,%d,%d)", fk[0], fk[1], fk[2])
}
