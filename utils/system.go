package utils

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
)

// MemUsage is a snapshot of the Go heap counters
type MemUsage struct {
	Alloc      uint64 `json:"alloc_bytes"`
	TotalAlloc uint64 `json:"total_alloc_bytes"`
	Sys        uint64 `json:"sys_bytes"`
	NumGC      uint32 `json:"num_gc"`
}

func ReadMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	return MemUsage{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
	}
}

// Since keeps the current heap sizes and turns the cumulative counters into
// the amount allocated and collected after `before` was taken
func (mu MemUsage) Since(before MemUsage) MemUsage {
	mu.TotalAlloc -= before.TotalAlloc
	mu.NumGC -= before.NumGC
	return mu
}

func (mu MemUsage) String() string {
	return fmt.Sprintf("Alloc = %s TotalAlloc = %s Sys = %s NumGC = %v",
		humanize.IBytes(mu.Alloc), humanize.IBytes(mu.TotalAlloc), humanize.IBytes(mu.Sys), mu.NumGC)
}
