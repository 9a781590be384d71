package utils

import (
	"fmt"
	"strings"

	"go.uber.org/atomic"
)

// MemoryOrder names the ordering a caller needs from an atomic operation.
// Go atomics are sequentially consistent, so every order is honoured by the
// strongest one; the value documents intent at the call site and is checked.
type MemoryOrder uint8

const (
	Relaxed MemoryOrder = iota
	Acquire
	Release
	AcquireRelease
	SequentiallyConsistent
)

func (mo MemoryOrder) String() string {
	switch mo {
	case Relaxed:
		return "Relaxed"
	case Acquire:
		return "Acquire"
	case Release:
		return "Release"
	case AcquireRelease:
		return "AcquireRelease"
	case SequentiallyConsistent:
		return "SequentiallyConsistent"
	}
	return "Invalid"
}

func (mo MemoryOrder) Valid() bool { return mo <= SequentiallyConsistent }

// ParseMemoryOrder accepts the names printed by String, case insensitively,
// and the C++ spellings such as "memory_order_relaxed" or "acq_rel"
func ParseMemoryOrder(s string) (MemoryOrder, error) {
	switch strings.TrimPrefix(strings.ToLower(s), "memory_order_") {
	case "relaxed", "":
		return Relaxed, nil
	case "acquire":
		return Acquire, nil
	case "release":
		return Release, nil
	case "acquirerelease", "acq_rel":
		return AcquireRelease, nil
	case "sequentiallyconsistent", "seq_cst":
		return SequentiallyConsistent, nil
	}
	return 0, fmt.Errorf("unknown memory order %q", s)
}

// AtomicArray is a fixed length integer array whose elements are only
// modified through atomic read-modify-write operations
type AtomicArray struct {
	data []atomic.Int64
}

func NewAtomicArray(length int) *AtomicArray {
	return &AtomicArray{
		data: make([]atomic.Int64, length),
	}
}

func (aa *AtomicArray) Len() int { return len(aa.data) }

func (aa *AtomicArray) check(i int, order MemoryOrder) {
	if i < 0 || i >= len(aa.data) {
		panic(fmt.Sprintf("atomic array index %d out of bounds [0,%d)", i, len(aa.data)))
	}
	if !order.Valid() {
		panic(fmt.Sprintf("invalid memory order %d", order))
	}
}

// FetchAdd adds delta to element i and returns the value held before the add
func (aa *AtomicArray) FetchAdd(i int, delta int64, order MemoryOrder) (old int64) {
	aa.check(i, order)
	return aa.data[i].Add(delta) - delta
}

// FetchSub subtracts delta from element i and returns the value held before
func (aa *AtomicArray) FetchSub(i int, delta int64, order MemoryOrder) (old int64) {
	aa.check(i, order)
	return aa.data[i].Sub(delta) + delta
}

func (aa *AtomicArray) Load(i int, order MemoryOrder) int64 {
	aa.check(i, order)
	return aa.data[i].Load()
}

func (aa *AtomicArray) Store(i int, val int64, order MemoryOrder) {
	aa.check(i, order)
	aa.data[i].Store(val)
}

// Snapshot copies the current values out. It must not race with writers.
func (aa *AtomicArray) Snapshot() (vals []int64) {
	vals = make([]int64, len(aa.data))
	for i := range aa.data {
		vals[i] = aa.data[i].Load()
	}
	return
}
