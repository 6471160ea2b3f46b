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

package report

import (
	"fmt"

	"github.com/cpre458/stackcheck/analysis"
	"github.com/cpre458/stackcheck/internal/curated"
)

// FunctionTable renders every resolved function as one pretty-printed line
// followed by one line per callee, ordered by start address, mirroring the
// source's Function.pretty_print.
func FunctionTable(reporter Reporter, functions analysis.Table) {
	starts := sortedStarts(functions)
	for _, start := range starts {
		f := functions[start]
		reporter.Info(KindFunctionTable, fmt.Sprintf("%s[0x%x]: %d", f.Name, f.Start, f.TotalStack))
		for _, c := range f.Callees {
			callee := functions[c]
			reporter.Info(KindFunctionTable, fmt.Sprintf("  -> %s[0x%x] (%d) %d", callee.Name, callee.Start, callee.OwnStack, callee.TotalStack))
		}
	}
}

func sortedStarts(functions analysis.Table) []uint32 {
	starts := make([]uint32, 0, len(functions))
	for s := range functions {
		starts = append(starts, s)
	}
	for i := 1; i < len(starts); i++ {
		for j := i; j > 0 && starts[j-1] > starts[j]; j-- {
			starts[j-1], starts[j] = starts[j], starts[j-1]
		}
	}
	return starts
}

// WriteResourceSummary writes the three-line resource summary (flash, sram,
// stack) plus accumulated warnings and the critical path trace. It returns
// true if the process should exit nonzero: the decision is made by taking
// each resource's CuratedErr() and consulting its curated.Kind rather than
// reading Severity directly, so a missing linker symbol (KindStructural)
// and a budget overrun (KindBudget) both force a nonzero exit the same way.
func WriteResourceSummary(reporter Reporter, flash, sram, stack Resource, warnings []string, trace string) (failed bool) {
	writeResourceLine(reporter, flash)
	writeResourceLine(reporter, sram)
	writeResourceLine(reporter, stack)

	for _, w := range warnings {
		reporter.Warn(KindWarning, "    "+w)
	}
	if !stack.Failed() {
		reporter.Info(KindCriticalPath, trace)
	}

	for _, r := range []Resource{flash, sram, stack} {
		if _, ok := curated.KindOf(r.CuratedErr()); ok {
			failed = true
		}
	}
	return failed
}

func writeResourceLine(reporter Reporter, r Resource) {
	if r.Failed() {
		reporter.Error(KindResourceSummary, fmt.Sprintf("  %s: ??? / ??? %s", r.Name, r.Err.Error()))
		return
	}
	line := fmt.Sprintf("  %s: %0.2f%% (%d / %d)", r.Name, r.Usage*100, r.Used, r.Total)
	switch r.Severity {
	case SeverityOK:
		reporter.Info(KindResourceSummary, line)
	case SeverityWarn:
		reporter.Warn(KindResourceSummary, line)
	default:
		reporter.Error(KindResourceSummary, line)
	}
}
