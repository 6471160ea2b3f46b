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

package symtab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFourAndThreeFieldLines(t *testing.T) {
	in := strings.Join([]string{
		"00001000 00000008 t foo",
		"00002000 00000000 T ROM_LENGTH",
		"00003000 D _sram",
	}, "\n")

	idx, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	foo, ok := idx.ByStart(0x1000)
	require.True(t, ok)
	assert.Equal(t, "foo", foo.Name)
	assert.Equal(t, uint32(8), foo.Len())

	rom, ok := idx.ByName("ROM_LENGTH")
	require.True(t, ok)
	assert.Equal(t, uint32(0x2000), rom.Start)

	sram, ok := idx.ByName("_sram")
	require.True(t, ok)
	assert.Equal(t, uint32(0), sram.Len())
}

func TestDataMarkerTrimsEnclosingFunction(t *testing.T) {
	in := strings.Join([]string{
		"00001000 00000020 t foo",
		"00001010 00000000 t $d.1",
	}, "\n")

	idx, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	foo, ok := idx.ByStart(0x1000)
	require.True(t, ok)
	assert.Equal(t, uint32(0x1010), foo.End, "function must be trimmed at the data marker, not left at its full declared size")
}

func TestZeroLengthTagTakesPrecedenceAtSharedStart(t *testing.T) {
	in := strings.Join([]string{
		"00001000 00000040 t firstFunc",
		"00001000 00000000 D _srom",
	}, "\n")

	idx, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	sym, ok := idx.ByStart(0x1000)
	require.True(t, ok)
	assert.Equal(t, "_srom", sym.Name)
}

func TestMalformedLineFailsFast(t *testing.T) {
	_, err := Parse(strings.NewReader("not a symbol line"))
	assert.Error(t, err)
}

func TestMustByNameMissingSymbol(t *testing.T) {
	idx, err := Parse(strings.NewReader("00001000 00000008 t foo"))
	require.NoError(t, err)

	_, err = idx.MustByName("ROM_LENGTH")
	assert.Error(t, err)
}
