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

package curated

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfRoundTrips(t *testing.T) {
	err := Errorf(KindSemantic, "recursion detected between %s and %s", "f", "g")
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindSemantic, kind)
}

func TestErrorfWrapsUnderlyingError(t *testing.T) {
	root := errors.New("boom")
	err := Errorf(KindStructural, "toolchain: %w", root)
	assert.True(t, errors.Is(err, root))
}

func TestKindOfFalseForPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}
