// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Command stackcheck performs static worst-case stack-depth analysis of a
// linked ARM Cortex-M firmware image, reports flash/RAM usage, and fails
// the build when any resource is over budget.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpre458/stackcheck/analysis"
	"github.com/cpre458/stackcheck/config"
	"github.com/cpre458/stackcheck/disasm"
	"github.com/cpre458/stackcheck/internal/curated"
	"github.com/cpre458/stackcheck/internal/logger"
	"github.com/cpre458/stackcheck/internal/toolchain"
	"github.com/cpre458/stackcheck/report"
	"github.com/cpre458/stackcheck/symtab"
	"github.com/cpre458/stackcheck/vectors"
)

var (
	budgetPath string
	strictBLX  bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stackcheck <elf-path> <report-path>",
		Short: "Static worst-case stack-depth analysis for ARM Cortex-M firmware",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed, err := run(args[0], args[1])
			if err != nil {
				return err
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&budgetPath, "budget", "", "optional YAML budget override file (defaults to linker symbols)")
	cmd.Flags().BoolVar(&strictBLX, "strict-blx", false, "treat indirect (blx) calls as fatal instead of a soundness warning")

	return cmd
}

// run performs the full analysis pipeline and writes the report file.
// report.WriteResourceSummary decides failed by checking each resource's
// curated.Kind (KindStructural for a missing linker symbol, KindBudget for
// an over-budget resource), so the exit code is always traced back to a
// curated error rather than a raw severity band. Partial success means
// flash/sram can still be reported even when the stack analyzer itself
// fails structurally or semantically (stackErr below).
func run(elfPath, reportPath string) (failed bool, err error) {
	logger.Clear()

	tc := toolchain.Default()

	symText, err := tc.SymbolTable(elfPath)
	if err != nil {
		return false, err
	}
	idx, err := symtab.Parse(strings.NewReader(symText))
	if err != nil {
		return false, err
	}

	disasmText, err := tc.Disassembly(elfPath)
	if err != nil {
		return false, err
	}
	stream, err := disasm.Parse(strings.NewReader(disasmText))
	if err != nil {
		return false, err
	}

	budget, loadErr := config.Load(budgetPath)
	if loadErr != nil {
		return false, loadErr
	}
	effectiveStrictBLX := strictBLX || budget.StrictBLX

	reportFile, err := os.Create(reportPath)
	if err != nil {
		return false, err
	}
	defer reportFile.Close()
	fileReporter := report.NewPlainReporter(reportFile)
	stdoutReporter := report.NewColorReporter(os.Stdout)

	fmt.Fprintln(reportFile, "-- Symbol Table --")
	fmt.Fprint(reportFile, symText)
	fmt.Fprintln(reportFile, "\n-- Disassembly --")
	fmt.Fprint(reportFile, disasmText)

	wc, warnings, stackErr := analyzeStack(idx, stream, tc, elfPath, effectiveStrictBLX)
	if stackErr == nil {
		fmt.Fprintln(reportFile, "\n>> STACK ANALYSIS RESULTS <<")
		report.FunctionTable(fileReporter, wc.functions)
	} else if kind, ok := curated.KindOf(stackErr); ok {
		// KindSemantic means the builder found a call cycle; any other
		// curated error out of analyzeStack is KindStructural (a toolchain,
		// vector-table, assembly or strict-blx failure).
		// Either way the stack section of the report is skipped below, but
		// flash/sram are still computed and the process still exits nonzero.
		logger.Logf("stackcheck", "stack analysis aborted (%s): %v", kind, stackErr)
	}

	flash := report.Flash(idx, budget.FlashTotal)
	sram := report.SRAM(idx, budget.SRAMTotal)

	var stack report.Resource
	var trace string
	if stackErr != nil {
		stack = report.Resource{Name: "STACK", Err: stackErr}
	} else {
		stack = report.StackBudget(idx, wc.worstCase.Depth, budget.StackTotal)
		trace = wc.worstCase.CriticalPathTrace()
	}

	fmt.Fprintf(reportFile, "\n-- Resource Usage Summary for %s --\n", elfPath)
	failed = report.WriteResourceSummary(fileReporter, flash, sram, stack, warnings, trace)
	report.WriteResourceSummary(stdoutReporter, flash, sram, stack, warnings, trace)

	if err := logger.WriteRecent(reportFile); err != nil {
		return failed, err
	}

	return failed, nil
}

type stackResult struct {
	functions analysis.Table
	worstCase report.WorstCase
}

// analyzeStack runs the exception-table resolver and call-graph builder,
// returning everything the report needs plus accumulated soundness
// warnings. A structural/semantic failure here is reported as err so the
// caller can still produce a partial (flash/sram-only) summary.
func analyzeStack(idx *symtab.Index, stream *disasm.Stream, tc toolchain.Toolchain, elfPath string, strict bool) (stackResult, []string, error) {
	vecBytes, err := tc.VectorTableBytes(elfPath)
	if err != nil {
		return stackResult{}, nil, err
	}
	table, err := vectors.Parse(vecBytes, idx)
	if err != nil {
		return stackResult{}, nil, err
	}

	builder := analysis.NewBuilder(idx, stream, strict)

	reset, err := builder.Analyze(table.Reset)
	if err != nil {
		return stackResult{}, builder.Warnings(), err
	}

	var hardfault *analysis.Function
	if table.Hardfault != nil {
		hardfault, err = builder.Analyze(*table.Hardfault)
		if err != nil {
			return stackResult{}, builder.Warnings(), err
		}
	}

	others := make([]*analysis.Function, 0, len(table.Others))
	for _, addr := range table.Others {
		f, err := builder.Analyze(addr)
		if err != nil {
			return stackResult{}, builder.Warnings(), err
		}
		others = append(others, f)
	}

	wc := report.Aggregate(reset, hardfault, others)
	return stackResult{functions: builder.Functions(), worstCase: wc}, builder.Warnings(), nil
}
