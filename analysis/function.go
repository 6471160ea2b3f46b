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

// Package analysis walks a function's instruction range to determine its
// fixed stack contribution and direct callees (the Function Analyzer), then
// resolves the call graph rooted at a given start address into a tree of
// Function records carrying a critical (deepest) path (the Call-Graph
// Builder).
package analysis

import "fmt"

// Function is a fully resolved entry in the call graph. Unlike the source's
// WIP sentinel stored in the same map slot as the resolved record, a
// Function only ever exists once fully computed; in-progress entries are
// tracked separately by the Builder (see builder.go).
type Function struct {
	Start uint32
	End   uint32
	Name  string

	// OwnStack is this function's own fixed stack contribution, excluding
	// anything pushed by callees.
	OwnStack uint32

	// Callees holds the start addresses of every function reached by a
	// resolvable `bl`, in first-encountered order.
	Callees []uint32

	// CriticalPath is the callee with maximal TotalStack, ties broken by
	// lowest start address. Nil when Callees is empty.
	CriticalPath *Function

	// TotalStack is OwnStack plus CriticalPath.TotalStack, or just OwnStack
	// when there is no critical path.
	TotalStack uint32
}

// CriticalPathString renders the chain of critical-path callees as
// "name(stack) -> name(stack) -> ...", matching the source's
// Function.critical_path_str layout.
func (f *Function) CriticalPathString() string {
	s := fmt.Sprintf("%s(%d)", f.Name, f.OwnStack)
	for c := f.CriticalPath; c != nil; c = c.CriticalPath {
		s += fmt.Sprintf(" -> %s(%d)", c.Name, c.OwnStack)
	}
	return s
}

// Table is the full set of resolved functions, keyed by start address. It is
// populated lazily by a Builder and is immutable once analysis completes.
type Table map[uint32]*Function
