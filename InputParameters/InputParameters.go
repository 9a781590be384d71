package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/extfaces/facelist"
	"github.com/notargets/extfaces/utils"
)

// Parameters obtained from the YAML input file
type ExtractParameters struct {
	Title          string `yaml:"Title"`
	MeshFile       string `yaml:"MeshFile"`       // .su2 or .neu mesh to read
	Grid           string `yaml:"Grid"`           // Generated grid "kind:NXxNYxNZ", used when MeshFile is empty
	Algorithm      string `yaml:"Algorithm"`      // hash-count or serial-map
	ParallelDegree int    `yaml:"ParallelDegree"` // 0 is one partition per CPU
	HashFunction   string `yaml:"HashFunction"`
	HashTableSize  int    `yaml:"HashTableSize"`  // 0 is the mesh point count
	CacheThreshold int    `yaml:"CacheThreshold"` // 0 is the default, negative disables the key cache
	MemoryOrder    string `yaml:"MemoryOrder"`
	ReportFile     string `yaml:"ReportFile"` // YAML timing report, none when empty
}

func (ep *ExtractParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ep)
}

// Options converts the parameters into extraction options
func (ep *ExtractParameters) Options() (opts facelist.Options, err error) {
	opts = facelist.DefaultOptions()
	if opts.Algorithm, err = facelist.ParseAlgorithm(ep.Algorithm); err != nil {
		return
	}
	if opts.HashFunction, err = facelist.ParseHashFunction(ep.HashFunction); err != nil {
		return
	}
	if opts.MemoryOrder, err = utils.ParseMemoryOrder(ep.MemoryOrder); err != nil {
		return
	}
	if ep.ParallelDegree < 0 {
		return opts, fmt.Errorf("ParallelDegree must not be negative, have %d", ep.ParallelDegree)
	}
	if ep.HashTableSize < 0 {
		return opts, fmt.Errorf("HashTableSize must not be negative, have %d", ep.HashTableSize)
	}
	opts.ParallelDegree = ep.ParallelDegree
	opts.HashTableSize = ep.HashTableSize
	switch {
	case ep.CacheThreshold < 0:
		opts.CacheThreshold = 0
	case ep.CacheThreshold > 0:
		opts.CacheThreshold = ep.CacheThreshold
	}
	return
}

func (ep *ExtractParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ep.Title)
	if ep.MeshFile != "" {
		fmt.Printf("[%s]\t= Mesh File\n", ep.MeshFile)
	} else {
		fmt.Printf("[%s]\t\t= Grid\n", ep.Grid)
	}
	fmt.Printf("[%s]\t\t= Algorithm\n", orDefault(ep.Algorithm, facelist.HashCount.String()))
	fmt.Printf("[%s]\t\t\t= Hash Function\n", orDefault(ep.HashFunction, facelist.FNV1a.String()))
	fmt.Printf("[%d]\t\t\t\t= Parallel Degree\n", ep.ParallelDegree)
	fmt.Printf("[%d]\t\t\t\t= Hash Table Size\n", ep.HashTableSize)
	fmt.Printf("[%d]\t\t\t\t= Cache Threshold\n", ep.CacheThreshold)
	fmt.Printf("[%s]\t\t\t= Memory Order\n", orDefault(ep.MemoryOrder, utils.Relaxed.String()))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
