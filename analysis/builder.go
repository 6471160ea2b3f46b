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

package analysis

import (
	"fmt"

	"github.com/cpre458/stackcheck/disasm"
	"github.com/cpre458/stackcheck/internal/curated"
	"github.com/cpre458/stackcheck/internal/logger"
	"github.com/cpre458/stackcheck/symtab"
)

type status int

const (
	unvisited status = iota
	inProgress
	resolved
)

// Builder is the Call-Graph Builder. It resolves the call graph rooted at
// a start address into memoized Function records, using an explicit work
// stack rather than host recursion so analyzer stack depth is bounded
// independent of the target's call depth.
type Builder struct {
	symbols *symtab.Index
	instrs  *disasm.Stream

	strictBLX bool

	functions Table
	status    map[uint32]status

	warnings []string
	blxCount int
}

// NewBuilder constructs a Builder over a parsed symbol index and
// instruction stream. When strictBLX is true, any blx instruction is a
// fatal error instead of a soundness warning.
func NewBuilder(symbols *symtab.Index, instrs *disasm.Stream, strictBLX bool) *Builder {
	return &Builder{
		symbols:   symbols,
		instrs:    instrs,
		strictBLX: strictBLX,
		functions: make(Table),
		status:    make(map[uint32]status),
	}
}

// Warnings returns every accumulated soundness warning, in emission order.
func (b *Builder) Warnings() []string {
	return b.warnings
}

// Functions returns the full table of resolved functions built up across
// every Analyze call so far.
func (b *Builder) Functions() Table {
	return b.functions
}

func (b *Builder) warnf(format string, args ...interface{}) {
	msg := "** Warning: " + fmt.Sprintf(format, args...) + " **"
	b.warnings = append(b.warnings, msg)
	logger.Logf("analysis", msg)
}

// noteBLX applies the source's blx warning-collapsing policy: the first two
// occurrences are reported in full, the third is reported once as a
// collapsed summary, and anything after that is silent (but still counted).
// In strict mode every occurrence is fatal instead.
func (b *Builder) noteBLX(fnName string, pc uint32) error {
	b.blxCount++
	if b.strictBLX {
		return curated.Errorf(curated.KindStructural,
			"analysis: blx in %s at 0x%x (indirect calls are rejected in strict mode)", fnName, pc)
	}
	switch {
	case b.blxCount < 3:
		b.warnf("programs using blx instruction are not supported (at %s, 0x%x)", fnName, pc)
	case b.blxCount == 3:
		b.warnf("programs using blx instruction are not supported (multiple, ignoring future)")
	}
	return nil
}

// frame is one in-progress entry on the explicit call-graph work stack: a
// function whose body has already been walked (own stack + callees known),
// waiting on some subset of its callees to resolve before its own
// total_stack can be computed.
type frame struct {
	start    uint32
	sym      symtab.Symbol
	ownStack uint32
	callees  []uint32
	next     int
}

// Analyze resolves the call graph rooted at start, memoized by start
// address across the lifetime of the Builder. It returns the same *Function
// on every subsequent call with the same start.
func (b *Builder) Analyze(start uint32) (*Function, error) {
	if f, ok := b.functions[start]; ok {
		return f, nil
	}

	var stack []*frame
	if err := b.enter(start, &stack); err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next >= len(top.callees) {
			b.finish(top)
			stack = stack[:len(stack)-1]
			continue
		}

		callee := top.callees[top.next]
		switch b.status[callee] {
		case resolved:
			top.next++
		case inProgress:
			calleeName := callee
			calleeSym, _ := b.symbols.ByStart(callee)
			return nil, curated.Errorf(curated.KindSemantic,
				"analysis: recursion detected between %s and %s", top.sym.Name, nameOr(calleeSym, calleeName))
		default:
			if err := b.enter(callee, &stack); err != nil {
				return nil, err
			}
		}
	}

	return b.functions[start], nil
}

func nameOr(sym symtab.Symbol, addr uint32) string {
	if sym.Name != "" {
		return sym.Name
	}
	return fmt.Sprintf("0x%x", addr)
}

// enter pushes a new frame for start, first checking it isn't already
// resolved, then walking its body to determine its own stack and callees.
func (b *Builder) enter(start uint32, stack *[]*frame) error {
	if b.status[start] == resolved {
		return nil
	}

	sym, ok := b.symbols.ByStart(start)
	if !ok {
		return curated.Errorf(curated.KindStructural, "analysis: could not find function at address 0x%x", start)
	}

	ownStack, callees, err := b.walkBody(start, sym)
	if err != nil {
		return err
	}

	b.status[start] = inProgress
	*stack = append(*stack, &frame{
		start:    start,
		sym:      sym,
		ownStack: ownStack,
		callees:  callees,
	})
	return nil
}

// finish computes a frame's critical path and total stack once every callee
// is resolved, and commits the result into the function table.
func (b *Builder) finish(fr *frame) {
	var critical *Function
	for _, c := range fr.callees {
		cf := b.functions[c]
		if critical == nil {
			critical = cf
			continue
		}
		if cf.TotalStack > critical.TotalStack {
			critical = cf
		} else if cf.TotalStack == critical.TotalStack && cf.Start < critical.Start {
			critical = cf
		}
	}

	total := fr.ownStack
	if critical != nil {
		total += critical.TotalStack
	}

	f := &Function{
		Start:        fr.start,
		End:          fr.sym.End,
		Name:         fr.sym.Name,
		OwnStack:     fr.ownStack,
		Callees:      fr.callees,
		CriticalPath: critical,
		TotalStack:   total,
	}

	b.functions[fr.start] = f
	b.status[fr.start] = resolved
}
