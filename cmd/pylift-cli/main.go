// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"pylift/internal/ast"
	"pylift/internal/ir"
	"pylift/internal/types"
)

func main() {
	args := os.Args[1:]
	verbose := false
	if len(args) > 0 && args[0] == "-v" {
		verbose = true
		args = args[1:]
	}
	if len(args) < 1 {
		fmt.Println("Usage: pylift [-v] <ast.json> [types.json]")
		os.Exit(1)
	}

	if verbose {
		commonlog.Configure(1, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	startTime := time.Now()
	astPath := args[0]

	astData, err := os.ReadFile(astPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read AST file: %v\n", err)
		os.Exit(1)
	}

	parse, err := ast.DecodeParseResult(astData)
	if err != nil {
		color.Red("Invalid AST input: %v", err)
		os.Exit(1)
	}

	table := types.Table{}
	if len(args) > 1 {
		tableData, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read type table: %v\n", err)
			os.Exit(1)
		}
		table, err = types.DecodeTable(tableData)
		if err != nil {
			color.Red("Invalid type table: %v", err)
			os.Exit(1)
		}
	}

	result := ir.Generate(parse, table)

	duration := formatDuration(time.Since(startTime))
	if !result.Success {
		for _, msg := range result.Errors {
			color.Red("error: %s", msg)
		}
		color.Red("Lowering failed after %s", duration)
		os.Exit(1)
	}

	fmt.Print(ir.Print(result.Module))
	fmt.Print(ir.PrintReports(result.Optimizations))
	color.Green("Lowered %s in %s (%d temps, %d blocks, %d functions)",
		astPath, duration,
		result.Metadata.TempVars, result.Metadata.BasicBlocks, result.Metadata.Functions)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}
