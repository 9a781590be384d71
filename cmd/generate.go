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

	"github.com/spf13/cobra"

	"github.com/notargets/extfaces/mesh"
	"github.com/notargets/extfaces/mesh/readers"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a structured hex, tet or wedge grid as an SU2 mesh",
	Long:  `Write a structured hex, tet or wedge grid over the unit cube as an SU2 mesh`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gridSpec, _ := cmd.Flags().GetString("grid")
		outFile, _ := cmd.Flags().GetString("output")
		if gridSpec == "" || outFile == "" {
			return fmt.Errorf("must supply a grid (--grid kind:NXxNYxNZ) and an output file (-o)")
		}
		gs, err := mesh.ParseGridSpec(gridSpec)
		if err != nil {
			return err
		}
		g := mesh.NewStructuredGrid(gs)
		if err = readers.WriteSU2(outFile, g); err != nil {
			return err
		}
		g.PrintStatistics()
		tris, quads := gs.ExpectedBoundaryFaces()
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s, %d boundary triangles and %d boundary quads\n",
			gs, outFile, tris, quads)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(GenerateCmd)
	GenerateCmd.Flags().String("grid", "", "grid to generate, kind:NXxNYxNZ with kind hex, tet or wedge")
	GenerateCmd.Flags().StringP("output", "o", "", "SU2 file to write")
}
