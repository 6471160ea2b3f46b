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

// Package vectors extracts handler entrypoints from a Cortex-M exception
// (vector) table: up to 47 little-endian u32 words, Thumb-bit masked,
// classified into reset, hardfault, and other handlers.
package vectors

import (
	"encoding/binary"

	"github.com/cpre458/stackcheck/internal/curated"
	"github.com/cpre458/stackcheck/internal/logger"
	"github.com/cpre458/stackcheck/symtab"
)

// maxEntries is the fallback truncation length when the symbol table has no
// declared-size `exception_table` symbol: 47 words (index 0 is the initial
// stack pointer, 1-46 are handler addresses).
const maxEntries = 47

// thumbBitMask clears bit 0, the Thumb-mode flag every vector entry sets.
const thumbBitMask = 0xFFFFFFFE

// Table is the resolved set of handler entrypoints relevant to worst-case
// stack analysis. Reserved/unused (zero) entries are never present.
type Table struct {
	// Reset is the mandatory reset handler entrypoint (vector index 1).
	Reset uint32

	// Hardfault is the hardfault handler entrypoint (vector index 3), or nil
	// if that slot is zero/absent.
	Hardfault *uint32

	// Others holds every other nonzero handler address (NMI plus indices
	// 4..46), deduplicated, in vector-table order.
	Others []uint32
}

// Parse truncates raw vector-table bytes to the exception_table symbol's
// declared length if present, otherwise to 47 words, interprets them as
// little-endian u32 words, masks the Thumb bit off each, and classifies
// the result.
func Parse(raw []byte, symbols *symtab.Index) (*Table, error) {
	if sym, ok := symbols.ByName("exception_table"); ok {
		if n := int(sym.Len()); n < len(raw) {
			raw = raw[:n]
		}
	} else if n := maxEntries * 4; len(raw) > n {
		raw = raw[:n]
	}

	n := len(raw) / 4
	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:i*4+4]) & thumbBitMask
	}

	logger.Logf("vectors", "parsed %d exception table entries", len(words))

	if len(words) == 0 {
		return nil, curated.Errorf(curated.KindStructural, "vectors: could not find exception table")
	}

	if len(words) < 2 || words[1] == 0 {
		return nil, curated.Errorf(curated.KindStructural, "vectors: could not find exception table")
	}

	t := &Table{Reset: words[1]}

	if len(words) > 3 && words[3] != 0 {
		hf := words[3]
		t.Hardfault = &hf
	}

	seen := make(map[uint32]bool)
	addOther := func(w uint32) {
		if w != 0 && !seen[w] {
			seen[w] = true
			t.Others = append(t.Others, w)
		}
	}
	if len(words) > 2 {
		addOther(words[2])
	}
	for i := 4; i < len(words); i++ {
		addOther(words[i])
	}

	return t, nil
}
