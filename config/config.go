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

// Package config loads optional budget overrides for a stackcheck run: the
// flash/sram/stack totals otherwise read from linker symbols, and the
// strict-blx switch. The severity thresholds are not configurable.
package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"

	"github.com/cpre458/stackcheck/internal/logger"
)

// Budget holds optional overrides for the flash/sram/stack totals normally
// read from linker symbols. A nil field means "use the linker symbol",
// preserving default behaviour when no override file is present.
type Budget struct {
	FlashTotal *uint32
	SRAMTotal  *uint32
	StackTotal *uint32
	StrictBLX  bool
}

// Load reads the optional YAML budget file at path. An empty path reads
// nothing; no default file name is searched for. Neither an empty path nor
// a missing file is an error: Load returns a zero Budget and every total
// falls back to its linker symbol.
func Load(path string) (Budget, error) {
	var b Budget

	if path == "" {
		return b, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Logf("config", "no budget override file at %q, using linker symbols", path)
		return b, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return b, err
	}

	if v.IsSet("flash_total") {
		n := uint32(v.GetUint("flash_total"))
		b.FlashTotal = &n
	}
	if v.IsSet("sram_total") {
		n := uint32(v.GetUint("sram_total"))
		b.SRAMTotal = &n
	}
	if v.IsSet("stack_total") {
		n := uint32(v.GetUint("stack_total"))
		b.StackTotal = &n
	}
	b.StrictBLX = v.GetBool("strict_blx")

	logger.Logf("config", "loaded budget overrides from %q", path)
	return b, nil
}
