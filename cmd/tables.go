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

	"github.com/notargets/spsr/bases"
	"github.com/spf13/cobra"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the shape of the loaded integral tables",
	Long: `
Prints level counts and row lengths for the 8 precomputed integral
tables, plus the center entry of each level zero row.`,
	Run: func(cmd *cobra.Command, args []string) {
		t := loadTable(cmd)
		for _, name := range bases.TableNames {
			levels, err := t.Levels(name)
			if err != nil {
				panic(err)
			}
			fmt.Printf("%-32s levels=%d rows=[", name, levels)
			for lev := 0; lev < levels; lev++ {
				n, err := t.RowLen(name, lev)
				if err != nil {
					panic(err)
				}
				if lev != 0 {
					fmt.Printf(" ")
				}
				fmt.Printf("%d", n)
			}
			n, _ := t.RowLen(name, 0)
			center, err := t.Lookup(name, 0, n/2)
			if err != nil {
				panic(err)
			}
			fmt.Printf("] center[0]=%v\n", center)
		}
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
