/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/notargets/extfaces/facelist"
	"github.com/notargets/extfaces/utils"
)

// PerfCounters holds hardware counter readings of one extraction
type PerfCounters struct {
	CacheMisses  uint64 `json:"cache_misses"`
	Instructions uint64 `json:"instructions"`
	TimeEnabled  uint64 `json:"time_enabled_ns"`
	TimeRunning  uint64 `json:"time_running_ns"`
}

// Report is the YAML record of one extract run
type Report struct {
	Title          string                 `json:"title,omitempty"`
	Mesh           string                 `json:"mesh"`
	Algorithm      string                 `json:"algorithm"`
	HashFunction   string                 `json:"hash_function,omitempty"`
	ParallelDegree int                    `json:"parallel_degree"`
	TableSize      int                    `json:"table_size,omitempty"`
	CacheThreshold int                    `json:"cache_threshold"`
	MemoryOrder    string                 `json:"memory_order"`
	Cells          int                    `json:"cells"`
	Points         int                    `json:"points"`
	Faces          int                    `json:"faces"`
	ExternalFaces  int                    `json:"external_faces"`
	FaceShapes     map[string]int         `json:"face_shapes"`
	Timings        []facelist.StageTiming `json:"timings"`
	TotalSeconds   float64                `json:"total_seconds"`
	Buckets        *facelist.BucketStats  `json:"buckets,omitempty"`
	Perf           *PerfCounters          `json:"perf,omitempty"`
	Memory         *utils.MemUsage        `json:"memory,omitempty"`
}

func newReport(title, meshName string, opts facelist.Options, res *facelist.Result,
	counters *PerfCounters) *Report {
	r := &Report{
		Title:          title,
		Mesh:           meshName,
		Algorithm:      opts.Algorithm.String(),
		ParallelDegree: opts.ParallelDegree,
		TableSize:      res.TableSize,
		CacheThreshold: opts.CacheThreshold,
		MemoryOrder:    opts.MemoryOrder.String(),
		Cells:          res.NumCells,
		Points:         res.Faces.NumPoints(),
		Faces:          res.NumFaces,
		ExternalFaces:  res.Faces.NumFaces(),
		FaceShapes:     make(map[string]int),
		Timings:        res.Timings,
		TotalSeconds:   res.TotalSeconds(),
		Buckets:        res.Buckets,
		Perf:           counters,
	}
	if opts.Algorithm == facelist.HashCount {
		r.HashFunction = opts.HashFunction.String()
	}
	for shape, n := range res.Faces.ShapeCounts() {
		r.FaceShapes[shape.String()] = n
	}
	return r
}

func writeReport(filename string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0644), "writing report %s", filename)
}

func readReport(filename string) (*Report, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading report")
	}
	r := &Report{}
	if err = yaml.Unmarshal(data, r); err != nil {
		return nil, errors.Wrapf(err, "decoding report %s", filename)
	}
	return r, nil
}

// Print writes a human readable summary
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Mesh %s: %s cells, %s points\n", r.Mesh,
		humanize.Comma(int64(r.Cells)), humanize.Comma(int64(r.Points)))
	fmt.Fprintf(w, "  Algorithm: %s", r.Algorithm)
	if r.HashFunction != "" {
		fmt.Fprintf(w, " (%s, %s buckets)", r.HashFunction, humanize.Comma(int64(r.TableSize)))
	}
	fmt.Fprintf(w, "\n  Faces: %s, external: %s\n",
		humanize.Comma(int64(r.Faces)), humanize.Comma(int64(r.ExternalFaces)))
	shapes := make([]string, 0, len(r.FaceShapes))
	for s := range r.FaceShapes {
		shapes = append(shapes, s)
	}
	sort.Strings(shapes)
	for _, s := range shapes {
		fmt.Fprintf(w, "    %s: %s\n", s, humanize.Comma(int64(r.FaceShapes[s])))
	}
	for _, st := range r.Timings {
		fmt.Fprintf(w, "  %-36s %s\n", st.Stage, secondsString(st.Seconds))
	}
	fmt.Fprintf(w, "  %-36s %s", "total", secondsString(r.TotalSeconds))
	if r.TotalSeconds > 0 {
		fmt.Fprintf(w, " (%s)", humanize.SIWithDigits(float64(r.Faces)/r.TotalSeconds, 2, "faces/s"))
	}
	fmt.Fprintln(w)
	if b := r.Buckets; b != nil {
		fmt.Fprintf(w, "  Buckets: mean %.3f, stddev %.3f, max %d, %.1f%% empty\n",
			b.MeanSize, b.StdDevSize, b.MaxSize, 100*b.EmptyFraction)
	}
	if r.Memory != nil {
		fmt.Fprintf(w, "  Memory: %s\n", r.Memory)
	}
	if p := r.Perf; p != nil {
		fmt.Fprintf(w, "  Cache misses: %s, instructions: %s\n",
			humanize.Comma(int64(p.CacheMisses)), humanize.Comma(int64(p.Instructions)))
	}
}

func secondsString(s float64) string {
	return time.Duration(s * float64(time.Second)).String()
}
