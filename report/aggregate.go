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
)

// interruptFrame is the eight registers the Cortex-M core pushes
// automatically on exception entry.
const interruptFrame = 32

// WorstCase is the aggregated nested worst-case stack depth across the
// reset handler, the single deepest pre-empting interrupt, and hardfault.
type WorstCase struct {
	Reset     *analysis.Function
	MaxOther  *analysis.Function
	Hardfault *analysis.Function
	Depth     uint32
}

// Aggregate computes the worst-case interrupt-nesting depth:
//
//	worst = reset.total_stack
//	      + (32 + max(others).total_stack)   if others non-empty
//	      + (32 + hardfault.total_stack)     if hardfault present
func Aggregate(reset *analysis.Function, hardfault *analysis.Function, others []*analysis.Function) WorstCase {
	wc := WorstCase{Reset: reset, Hardfault: hardfault}
	depth := reset.TotalStack

	if len(others) > 0 {
		max := others[0]
		for _, o := range others[1:] {
			if o.TotalStack > max.TotalStack || (o.TotalStack == max.TotalStack && o.Start < max.Start) {
				max = o
			}
		}
		wc.MaxOther = max
		depth += interruptFrame + max.TotalStack
	}

	if hardfault != nil {
		depth += interruptFrame + hardfault.TotalStack
	}

	wc.Depth = depth
	return wc
}

// CriticalPathTrace renders the full nested critical path, one line per
// contributing handler, matching the source's indentation style.
func (wc WorstCase) CriticalPathTrace() string {
	s := "    -> " + wc.Reset.CriticalPathString()
	if wc.MaxOther != nil {
		s += fmt.Sprintf("\n    -> Interrupt(%d) + %s", interruptFrame, wc.MaxOther.CriticalPathString())
	}
	if wc.Hardfault != nil {
		s += fmt.Sprintf("\n    -> Interrupt(%d) + %s", interruptFrame, wc.Hardfault.CriticalPathString())
	}
	return s
}
