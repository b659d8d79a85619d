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
	"time"

	"github.com/notargets/spsr/bases"
	"github.com/notargets/spsr/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// stiffnessCmd represents the stiffness command
var stiffnessCmd = &cobra.Command{
	Use:   "stiffness",
	Short: "Assemble the stiffness coefficients of a uniform cell grid",
	Long: `
Demonstration driver: computes the grad·grad integrals between every
pair of overlapping bases on a small uniform grid of unit-stride cells
and assembles them into a sparse matrix, reporting fill statistics.
Hierarchy construction and solving stay outside this tool.`,
	Run: func(cmd *cobra.Command, args []string) {
		k, _ := cmd.Flags().GetInt("k")
		prof, _ := cmd.Flags().GetBool("cpuprofile")
		if k < 2 {
			fmt.Printf("error: grid dimension k must be at least 2, have %d\n", k)
			os.Exit(1)
		}
		if prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		b := bases.NewBezierBasis(loadTable(cmd))
		start := time.Now()
		A := AssembleUniformStiffness(b, k)
		elapsed := time.Since(start)
		nr, nc := A.Dims()
		fmt.Printf("assembled %dx%d stiffness, nnz=%d (%.2f%% fill) in %v\n",
			nr, nc, A.NNZ(), 100*float64(A.NNZ())/float64(nr*nc), elapsed)
	},
}

// AssembleUniformStiffness computes the grad·grad coefficient between
// every pair of cells on a k³ grid of unit-stride cells whose centers
// are within the shared basis support, and scatters the results into a
// DOK sparse matrix.
func AssembleUniformStiffness(b *bases.BezierBasis, k int) (A utils.DOK) {
	var (
		n      = k * k * k
		cellID = func(x, y, z int) int { return x + k*(y+k*z) }
	)
	A = utils.NewDOK(n, n)
	// Unit-stride pairs interact only within +-2 cells per axis.
	var offsets [][3]int
	for dz := -2; dz <= 2; dz++ {
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				offsets = append(offsets, [3]int{dx, dy, dz})
			}
		}
	}
	relPos := utils.NewMatrix(len(offsets), 3)
	for i, off := range offsets {
		for j := 0; j < 3; j++ {
			relPos.Set(i, j, float64(off[j]))
		}
	}
	coeffs, err := b.IntegrateGradGrad(relPos, 1, 1)
	if err != nil {
		panic(err)
	}
	for z := 0; z < k; z++ {
		for y := 0; y < k; y++ {
			for x := 0; x < k; x++ {
				row := cellID(x, y, z)
				for i, off := range offsets {
					cx, cy, cz := x+off[0], y+off[1], z+off[2]
					if cx < 0 || cx >= k || cy < 0 || cy >= k || cz < 0 || cz >= k {
						continue
					}
					if c := coeffs.AtVec(i); c != 0 {
						A.Set(row, cellID(cx, cy, cz), c)
					}
				}
			}
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(stiffnessCmd)
	stiffnessCmd.Flags().IntP("k", "k", 8, "cells per grid axis")
	stiffnessCmd.Flags().Bool("cpuprofile", false, "write a CPU profile for the assembly")
}
