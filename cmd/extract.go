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
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/extfaces/InputParameters"
	"github.com/notargets/extfaces/facelist"
	"github.com/notargets/extfaces/mesh"
	"github.com/notargets/extfaces/mesh/readers"
	"github.com/notargets/extfaces/utils"
)

// ExtractCmd represents the extract command
var ExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the external faces of a mesh file or a generated grid",
	Long: `Reads a mesh (-F, --meshFile) or generates one (--grid hex:4x4x4), finds the
faces owned by exactly one cell and prints a summary. Parameters come from the
config file, an input parameters file (-I) and the flags, in increasing order
of precedence.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, err := extractParameters(cmd)
		if err != nil {
			return err
		}
		perfOn, _ := cmd.Flags().GetBool("perf")
		return RunExtract(cmd, ep, perfOn)
	},
}

// Flags bound in viper under "extract.", each overriding one input parameter
var extractFlags = []string{
	"meshFile", "grid", "algorithm", "parallelDegree", "hashFunction",
	"hashTableSize", "cacheThreshold", "memoryOrder", "report",
}

func init() {
	rootCmd.AddCommand(ExtractCmd)
	flags := ExtractCmd.Flags()
	flags.StringP("meshFile", "F", "", "mesh file to read in SU2 (.su2) or Gambit neutral (.neu) format")
	flags.StringP("inputParametersFile", "I", "", "YAML file of extraction parameters like:\n\t- Algorithm\n\t- HashFunction\n\t- ParallelDegree")
	flags.String("grid", "", "generate a grid instead of reading one, kind:NXxNYxNZ with kind hex, tet or wedge")
	flags.StringP("algorithm", "a", facelist.HashCount.String(), "hash-count or serial-map")
	flags.IntP("parallelDegree", "n", 0, "number of partitions for each parallel stage, 0 for one per CPU")
	flags.String("hashFunction", facelist.FNV1a.String(), "fnv1a, minpoint, farm or xxhash")
	flags.Int("hashTableSize", 0, "number of hash buckets, 0 for the mesh point count")
	flags.Int("cacheThreshold", facelist.DefaultCacheThreshold, "largest bucket whose keys are cached, negative to disable")
	flags.String("memoryOrder", "relaxed", "memory order of the bucket counters")
	flags.StringP("report", "o", "", "write a YAML report of the run to this file")
	flags.Bool("perf", false, "count cache misses and instructions of the calling thread (linux)")
	for _, name := range extractFlags {
		if err := viper.BindPFlag("extract."+name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// extractParameters layers the config file, the parameters file and the
// flags set on the command line
func extractParameters(cmd *cobra.Command) (ep *InputParameters.ExtractParameters, err error) {
	fromViper := func(ep *InputParameters.ExtractParameters, changedOnly bool) {
		set := func(name string) bool {
			return !changedOnly || cmd.Flags().Changed(name)
		}
		key := func(name string) string { return "extract." + name }
		if set("meshFile") {
			ep.MeshFile = viper.GetString(key("meshFile"))
		}
		if set("grid") {
			ep.Grid = viper.GetString(key("grid"))
		}
		if set("algorithm") {
			ep.Algorithm = viper.GetString(key("algorithm"))
		}
		if set("parallelDegree") {
			ep.ParallelDegree = viper.GetInt(key("parallelDegree"))
		}
		if set("hashFunction") {
			ep.HashFunction = viper.GetString(key("hashFunction"))
		}
		if set("hashTableSize") {
			ep.HashTableSize = viper.GetInt(key("hashTableSize"))
		}
		if set("cacheThreshold") {
			ep.CacheThreshold = viper.GetInt(key("cacheThreshold"))
		}
		if set("memoryOrder") {
			ep.MemoryOrder = viper.GetString(key("memoryOrder"))
		}
		if set("report") {
			ep.ReportFile = viper.GetString(key("report"))
		}
	}
	ep = &InputParameters.ExtractParameters{}
	fromViper(ep, false)
	ipFile, _ := cmd.Flags().GetString("inputParametersFile")
	if ipFile != "" {
		var data []byte
		if data, err = os.ReadFile(ipFile); err != nil {
			return nil, errors.Wrap(err, "reading input parameters")
		}
		if err = ep.Parse(data); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", ipFile)
		}
		fromViper(ep, true)
	}
	if ep.MeshFile == "" && ep.Grid == "" {
		exampleFile := `
########################################
Title: "Test Case"
Grid: tet:20x20x20 # Or MeshFile: wing.su2
Algorithm: hash-count
HashFunction: fnv1a
ParallelDegree: 0
ReportFile: report.yaml
########################################
`
		fmt.Fprintf(cmd.ErrOrStderr(), "Example File:%s\n", exampleFile)
		return nil, fmt.Errorf("must supply a mesh file (-F, --meshFile) or a grid (--grid)")
	}
	return
}

// loadGrid reads or generates the mesh named by the parameters
func loadGrid(ep *InputParameters.ExtractParameters) (g *mesh.Grid, name string, err error) {
	if ep.MeshFile != "" {
		if g, err = readers.ReadMeshFile(ep.MeshFile); err != nil {
			return nil, "", err
		}
		return g, ep.MeshFile, nil
	}
	gs, err := mesh.ParseGridSpec(ep.Grid)
	if err != nil {
		return nil, "", err
	}
	return mesh.NewStructuredGrid(gs), gs.String(), nil
}

func RunExtract(cmd *cobra.Command, ep *InputParameters.ExtractParameters, perfOn bool) (err error) {
	var (
		out = cmd.OutOrStdout()
	)
	opts, err := ep.Options()
	if err != nil {
		return err
	}
	opts.Logger = logger
	g, meshName, err := loadGrid(ep)
	if err != nil {
		return err
	}
	ex, err := facelist.NewExtractor(opts)
	if err != nil {
		return err
	}
	var (
		res      *facelist.Result
		counters *PerfCounters
		perfErr  error
		extract  = func() (err error) {
			res, err = ex.Extract(g.Cells)
			return
		}
	)
	before := utils.ReadMemUsage()
	if perfOn {
		counters, perfErr, err = measurePerf(extract)
		if perfErr != nil {
			logger.Warn("hardware counters unavailable", zap.Error(perfErr))
		}
	} else {
		err = extract()
	}
	if err != nil {
		return errors.Wrapf(err, "extracting faces of %s", meshName)
	}
	mem := utils.ReadMemUsage().Since(before)
	r := newReport(ep.Title, meshName, opts, res, counters)
	r.Memory = &mem
	r.Print(out)
	if ep.ReportFile != "" {
		if err = writeReport(ep.ReportFile, r); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", ep.ReportFile)
	}
	return nil
}
