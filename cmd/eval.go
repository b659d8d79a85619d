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

	"github.com/notargets/spsr/InputParameters"
	"github.com/notargets/spsr/bases"
	"github.com/notargets/spsr/utils"
	"github.com/spf13/cobra"
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the Bezier basis kernel along the x axis",
	Long: `
Samples the 1D kernel and its derivative over a coordinate range, plus
the trivariate basis value along the space diagonal.

spsr eval -I eval.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		ipFile, _ := cmd.Flags().GetString("inputParametersFile")
		ep := processEvalInput(ipFile)
		b := bases.NewBezierBasis(loadTable(cmd))
		RunEval(b, ep)
	},
}

func processEvalInput(ipFile string) (ep *InputParameters.EvalParameters) {
	ep = &InputParameters.EvalParameters{
		Title:        "kernel profile",
		NumSamples:   21,
		SourceStride: 1,
		TargetStride: 1,
		XMin:         -2,
		XMax:         2,
	}
	if len(ipFile) != 0 {
		data, err := os.ReadFile(ipFile)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = ep.Parse(data); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	if err := ep.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ep.Print()
	return
}

func loadTable(cmd *cobra.Command) (t *bases.IntegralTable) {
	tableFile, _ := cmd.Flags().GetString("tableFile")
	if len(tableFile) == 0 {
		return bases.DefaultIntegralTable()
	}
	var err error
	if t, err = bases.LoadIntegralTableFile(tableFile); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func RunEval(b *bases.BezierBasis, ep *InputParameters.EvalParameters) {
	var (
		n   = ep.NumSamples
		dx  = (ep.XMax - ep.XMin) / float64(n-1)
		xyz = utils.NewMatrix(n, 3)
	)
	for i := 0; i < n; i++ {
		x := ep.XMin + float64(i)*dx
		for j := 0; j < 3; j++ {
			xyz.Set(i, j, x)
		}
	}
	vals := b.Evaluate(xyz)
	grads := b.EvaluateDerivative(xyz, ep.TargetStride)
	fmt.Printf("%10s %12s %12s %12s\n", "x", "B(x)", "dB(x)", "B(x,x,x)")
	for i := 0; i < n; i++ {
		x := ep.XMin + float64(i)*dx
		fmt.Printf("%10.4f %12.6f %12.6f %12.6f\n",
			x, bases.EvalKernel1D(x), bases.EvalKernelDeriv1D(x), vals.AtVec(i))
	}
	fmt.Printf("max |gradient component| = %v\n", maxAbs(grads))

	gg, err := b.IntegrateGradGrad(utils.NewMatrix(1, 3), ep.SourceStride, ep.TargetStride)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("grad·grad self integral, stride %d -> %d = %v\n",
		ep.SourceStride, ep.TargetStride, gg.AtVec(0))
}

func maxAbs(m utils.Matrix) (max float64) {
	for _, v := range m.Data() {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for eval parameters like:\n\t- NumSamples\n\t- XMin, XMax")
}
