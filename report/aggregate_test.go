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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpre458/stackcheck/analysis"
	"github.com/cpre458/stackcheck/symtab"
)

func fn(start uint32, total uint32) *analysis.Function {
	return &analysis.Function{Start: start, Name: "h", OwnStack: total, TotalStack: total}
}

func TestAggregateFullExceptionNesting(t *testing.T) {
	reset := fn(0x1000, 100)
	hardfault := fn(0x1010, 40)
	other1 := fn(0x1020, 60)
	other2 := fn(0x1030, 80)

	wc := Aggregate(reset, hardfault, []*analysis.Function{other1, other2})

	assert.Equal(t, uint32(284), wc.Depth)
	assert.Same(t, other2, wc.MaxOther)
}

func TestAggregateResetOnly(t *testing.T) {
	reset := fn(0x1000, 12)
	wc := Aggregate(reset, nil, nil)
	assert.Equal(t, uint32(12), wc.Depth)
	assert.Nil(t, wc.MaxOther)
}

func parseSymbols(t *testing.T, lines ...string) *symtab.Index {
	t.Helper()
	idx, err := symtab.Parse(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return idx
}

func TestFlashSeverityBands(t *testing.T) {
	idx := parseSymbols(t,
		"00000400 00000000 T ROM_LENGTH",
		"00000010 00000000 D _srom",
		"00000110 00000000 D _erom", // 0x100 used / 0x400 total = 25%
	)

	r := Flash(idx, nil)
	assert.False(t, r.Failed())
	assert.Equal(t, SeverityOK, r.Severity)
}

func TestFlashOverBudgetIsError(t *testing.T) {
	idx := parseSymbols(t,
		"00000100 00000000 T ROM_LENGTH",
		"00000000 00000000 D _srom",
		"00000200 00000000 D _erom", // 0x200 used / 0x100 total = 200%
	)

	r := Flash(idx, nil)
	assert.Equal(t, SeverityError, r.Severity)
}

func TestFlashBudgetOverrideReplacesLinkerTotal(t *testing.T) {
	idx := parseSymbols(t,
		"00000100 00000000 T ROM_LENGTH",
		"00000000 00000000 D _srom",
		"00000080 00000000 D _erom", // 0x80 used / 0x100 linker total = 50%
	)

	override := uint32(0x1000) // 0x80 / 0x1000 is well under budget
	r := Flash(idx, &override)
	assert.Equal(t, uint32(0x1000), r.Total)
	assert.Equal(t, SeverityOK, r.Severity)
}

func TestStackBudgetUsesStricterThreshold(t *testing.T) {
	idx := parseSymbols(t,
		"00000000 00000000 D _sstack",
		"00000064 00000000 D _estack", // 0x64 = 100 byte stack region
	)

	r := StackBudget(idx, 50, nil) // 50/100 = 50%, at the stricter ok/warn boundary
	assert.Equal(t, SeverityWarn, r.Severity)

	rOK := StackBudget(idx, 49, nil)
	assert.Equal(t, SeverityOK, rOK.Severity)
}

func TestFlashMissingSymbolFails(t *testing.T) {
	idx := parseSymbols(t, "00000000 00000000 D something_else")
	r := Flash(idx, nil)
	assert.True(t, r.Failed())
}
