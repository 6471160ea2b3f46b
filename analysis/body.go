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
	"strings"

	"github.com/cpre458/stackcheck/disasm"
	"github.com/cpre458/stackcheck/internal/curated"
	"github.com/cpre458/stackcheck/symtab"
)

// branchMnemonics are non-linking branches: they never extend a function's
// stack frame and never denote a call.
var branchMnemonics = map[string]bool{
	"b": true, "beq": true, "bne": true, "bcs": true, "bcc": true,
	"bmi": true, "bpl": true, "bvs": true, "bvc": true, "bhi": true,
	"bls": true, "bge": true, "blt": true, "bgt": true, "ble": true,
	"bal": true, "bhs": true, "blo": true,
}

// walkBody implements the Function Analyzer: it walks a single function's
// instruction range and returns its own fixed stack contribution and
// direct callee start addresses. It never descends into callees; that is
// the Call-Graph Builder's job (builder.go).
func (b *Builder) walkBody(start uint32, sym symtab.Symbol) (ownStack uint32, callees []uint32, err error) {
	end := sym.End
	i := b.instrs.Find(start)
	pc := start

	var pendingReg string
	var pendingVal uint32
	haveCallee := make(map[uint32]bool)

	for pc < end {
		if i >= b.instrs.Len() {
			return 0, nil, curated.Errorf(curated.KindStructural,
				"analysis: gap in assembly in %s at 0x%x (ran out of instructions)", sym.Name, pc)
		}
		inst := b.instrs.At(i)
		if inst.Addr != pc {
			return 0, nil, curated.Errorf(curated.KindStructural,
				"analysis: gap in assembly in %s: expected instruction at 0x%x, found one at 0x%x", sym.Name, pc, inst.Addr)
		}

		switch {
		case inst.Mnemonic == "push":
			ownStack += 4 * uint32(len(inst.RegList()))

		case inst.Mnemonic == "sub" && isReg(inst.Arg0, "sp"):
			if inst.Arg1.Kind != disasm.Immediate {
				return 0, nil, curated.Errorf(curated.KindStructural,
					"analysis: non-immediate sub sp in %s at 0x%x", sym.Name, pc)
			}
			ownStack += uint32(inst.Arg1.Imm)

		case inst.Mnemonic == "ldr" && isPCRelative(inst.Arg1):
			// The ldr's own raw encoding is what a matching add sp adds to
			// ownStack; the literal-pool word it loads is never read.
			pendingReg = inst.Arg0.Reg
			pendingVal = inst.Encoding

		case inst.Mnemonic == "add" && isReg(inst.Arg0, "sp"):
			switch inst.Arg1.Kind {
			case disasm.Immediate:
				// Constant addition; ignored, we care about max depth.
			case disasm.Register:
				if inst.Arg1.Reg != pendingReg {
					return 0, nil, curated.Errorf(curated.KindStructural,
						"analysis: unknown addition to stack pointer in %s at 0x%x", sym.Name, pc)
				}
				ownStack += pendingVal
			default:
				return 0, nil, curated.Errorf(curated.KindStructural,
					"analysis: unknown addition to stack pointer in %s at 0x%x", sym.Name, pc)
			}

		case isReg(inst.Arg0, "sp"):
			nextIsPop := i+1 < b.instrs.Len() && b.instrs.At(i+1).Mnemonic == "pop"
			if !nextIsPop {
				return 0, nil, curated.Errorf(curated.KindStructural,
					"analysis: unknown action done to stack pointer in %s at 0x%x", sym.Name, pc)
			}

		case inst.Mnemonic == "bl":
			target, ok := inst.Arg0.HexTarget()
			if !ok {
				return 0, nil, curated.Errorf(curated.KindStructural,
					"analysis: malformed bl target %q in %s at 0x%x", inst.Arg0.String(), sym.Name, pc)
			}
			if _, ok := b.symbols.ByStart(target); ok {
				if !haveCallee[target] {
					haveCallee[target] = true
					callees = append(callees, target)
				}
			} else if target > start && target <= end {
				// Internal branch encoded as bl; not a call.
			} else {
				b.warnf("could not find target for bl to 0x%x", target)
			}

		case inst.Mnemonic == "blx":
			if err := b.noteBLX(sym.Name, pc); err != nil {
				return 0, nil, err
			}

		case branchMnemonics[inst.Mnemonic]:
			// Non-linking branch; ignored.

		default:
			// Irrelevant to stack accounting.
		}

		pc += uint32(inst.ByteLen)
		if inst.Repeated {
			if i+1 < b.instrs.Len() && b.instrs.At(i+1).Addr != pc {
				continue
			}
		}
		i++
	}

	return ownStack, callees, nil
}

func isReg(op disasm.Operand, name string) bool {
	return op.Kind == disasm.Register && op.Reg == name
}

// isPCRelative reports whether op is a bracketed PC-relative addressing
// expression such as "[pc, #0x19c]".
func isPCRelative(op disasm.Operand) bool {
	return op.Kind == disasm.Token && strings.HasPrefix(op.Tok, "[pc")
}
