package utils

import "fmt"

// CSR groups a flat data array into variable length runs. Group i is
// Data[Offsets[i]:Offsets[i+1]], so Offsets has one more entry than groups.
type CSR[T any] struct {
	Offsets []int
	Data    []T
}

func NewCSR[T any](offsets []int, data []T) CSR[T] {
	if len(offsets) == 0 {
		panic("CSR offsets need at least one entry")
	}
	if last := offsets[len(offsets)-1]; last != len(data) {
		panic(fmt.Sprintf("CSR offsets end at %d, data length is %d", last, len(data)))
	}
	return CSR[T]{Offsets: offsets, Data: data}
}

// NumGroups returns the number of runs
func (c CSR[T]) NumGroups() int {
	if len(c.Offsets) == 0 {
		return 0
	}
	return len(c.Offsets) - 1
}

// Range returns the bounds of group i within Data
func (c CSR[T]) Range(i int) (lo, hi int) {
	if i < 0 || i >= c.NumGroups() {
		panic(fmt.Sprintf("CSR group %d out of bounds [0,%d)", i, c.NumGroups()))
	}
	lo, hi = c.Offsets[i], c.Offsets[i+1]
	if lo > hi || hi > len(c.Data) {
		panic(fmt.Sprintf("CSR group %d has invalid range [%d,%d) over %d entries",
			i, lo, hi, len(c.Data)))
	}
	return
}

// Group returns group i as a subslice sharing storage with Data
func (c CSR[T]) Group(i int) []T {
	lo, hi := c.Range(i)
	return c.Data[lo:hi:hi]
}

// GroupLen returns the length of group i
func (c CSR[T]) GroupLen(i int) int {
	lo, hi := c.Range(i)
	return hi - lo
}
