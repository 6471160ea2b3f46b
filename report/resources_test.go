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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSRAMSubtractsStackRegionFromUsedAndTotal(t *testing.T) {
	idx := parseSymbols(t,
		"00001000 00000000 T RAM_LENGTH",
		"00000000 00000000 D _sram",
		"00000300 00000000 D _eram", // 0x300 used overall
		"00000200 00000000 D _sstack",
		"00000300 00000000 D _estack", // 0x100 of that is stack
	)

	r := SRAM(idx, nil)
	assert.False(t, r.Failed())
	assert.Equal(t, uint32(0x200), r.Used)  // 0x300 - 0x100
	assert.Equal(t, uint32(0xF00), r.Total) // 0x1000 - 0x100
}

func TestSRAMMissingStackSymbolFails(t *testing.T) {
	idx := parseSymbols(t,
		"00000000 00001000 T RAM_LENGTH",
		"00000000 00000000 D _sram",
		"00000300 00000000 D _eram",
	)

	r := SRAM(idx, nil)
	assert.True(t, r.Failed())
}

func TestSRAMOverrideAppliesBeforeStackIsCarvedOut(t *testing.T) {
	idx := parseSymbols(t,
		"00000000 00000100 T RAM_LENGTH",
		"00000000 00000000 D _sram",
		"00000080 00000000 D _eram",
		"00000000 00000000 D _sstack",
		"00000040 00000000 D _estack", // 0x40 stack region
	)

	override := uint32(0x1000)
	r := SRAM(idx, &override)
	assert.Equal(t, uint32(0x1000-0x40), r.Total)
}

func TestUsageZeroTotalZeroUsedIsFullyConsumed(t *testing.T) {
	assert.Equal(t, float64(1), usage(0, 0))
}

func TestUsageZeroTotalNonzeroUsedIsInfinite(t *testing.T) {
	assert.True(t, math.IsInf(usage(5, 0), 1))
}

func TestSeverityBoundaries(t *testing.T) {
	assert.Equal(t, SeverityOK, severity(0.79, 0.8))
	assert.Equal(t, SeverityWarn, severity(0.8, 0.8))
	assert.Equal(t, SeverityWarn, severity(1.0, 0.8))
	assert.Equal(t, SeverityError, severity(1.01, 0.8))
}

func TestStackRegionLength(t *testing.T) {
	idx := parseSymbols(t,
		"00001000 00000000 D _sstack",
		"00001400 00000000 D _estack",
	)
	n, err := StackRegion(idx)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x400), n)
}
