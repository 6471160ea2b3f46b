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

package disasm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePushAndPop(t *testing.T) {
	in := "    1000:\tb500      \tpush\t{r4, lr}\n" +
		"    1002:\tbd00      \tpop\t{r4, pc}\n"

	s, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	push := s.At(0)
	assert.Equal(t, uint32(0x1000), push.Addr)
	assert.Equal(t, "push", push.Mnemonic)
	assert.Equal(t, []string{"r4", "lr"}, push.RegList())
}

func TestEncodingBytesAreByteReversed(t *testing.T) {
	in := "    1c84:\tb0ff      \tsub\tsp, #0x1fc\n"
	s, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, uint32(0xffb0), s.At(0).Encoding)
	assert.Equal(t, 2, s.At(0).ByteLen)
}

func TestRepeatedInstructionFlag(t *testing.T) {
	in := "    1000:\t0000      \tmovs\tr0, r0\n" +
		"    ...\n" +
		"    1010:\t0000      \tmovs\tr0, r0\n"
	s, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.True(t, s.At(0).Repeated)
	assert.False(t, s.At(1).Repeated)
}

func TestRepeatedContinuationWithNoPrecedingInstructionErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("    ...\n"))
	assert.Error(t, err)
}

func TestBranchTargetSurvivesSymbolAnnotation(t *testing.T) {
	in := "    1000:\tf7ff fffe \tbl\t1004 <g>\n"
	s, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	target, ok := s.At(0).Arg0.HexTarget()
	require.True(t, ok)
	assert.Equal(t, uint32(0x1004), target)
}

func TestFindLocatesFirstInstructionAtOrAfterAddr(t *testing.T) {
	in := "    1000:\t0000      \tmovs\tr0, r0\n" +
		"    1002:\t0000      \tmovs\tr0, r0\n" +
		"    1010:\t0000      \tmovs\tr0, r0\n"
	s, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Find(0x1004))
	assert.Equal(t, 0, s.Find(0x1000))
	assert.Equal(t, 3, s.Find(0x2000))
}
