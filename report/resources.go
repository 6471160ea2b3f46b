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

// Package report computes the worst-case interrupt-nesting stack depth and
// flash/RAM budget usage, and formats both for a Reporter (the
// info/warn/error capability set in reporter.go).
package report

import (
	"math"

	"github.com/cpre458/stackcheck/internal/curated"
	"github.com/cpre458/stackcheck/symtab"
)

// Severity bands a resource's usage against its budget.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityError
)

// Resource is one budgeted quantity (flash, sram or stack) and its usage
// severity.
type Resource struct {
	Name     string
	Used     uint32
	Total    uint32
	Usage    float64
	Severity Severity
	Err      error
}

// Failed reports whether this resource's budget could not be computed at
// all (a required linker symbol was missing), distinct from a computed but
// over-budget resource.
func (r Resource) Failed() bool {
	return r.Err != nil
}

// CuratedErr returns the curated error that should force a nonzero process
// exit for this resource, or nil if the resource is within budget. A
// resource that Failed() returns its Err as is when that is already a
// curated error (KindStructural for a missing linker symbol, or the kind the
// stack analysis failed with), and wrapped as KindStructural otherwise; an
// over-budget resource gets a KindBudget error constructed here, so every
// case routes through the same curated.Kind taxonomy instead of being
// decided from Severity alone.
func (r Resource) CuratedErr() error {
	if r.Err != nil {
		if _, ok := curated.KindOf(r.Err); ok {
			return r.Err
		}
		return curated.Errorf(curated.KindStructural, "report: %s: %w", r.Name, r.Err)
	}
	if r.Severity == SeverityError {
		return curated.Errorf(curated.KindBudget, "report: %s over budget: %.2f%% (%d / %d)", r.Name, r.Usage*100, r.Used, r.Total)
	}
	return nil
}

func usage(used, total uint32) float64 {
	if total == 0 {
		if used == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return float64(used) / float64(total)
}

func severity(usage float64, okThreshold float64) Severity {
	switch {
	case usage < okThreshold:
		return SeverityOK
	case usage <= 1:
		return SeverityWarn
	default:
		return SeverityError
	}
}

// Flash computes used/total flash from the ROM_LENGTH, _srom and _erom
// linker symbols. A non-nil override replaces the linker-provided total,
// per an operator-supplied config.Budget.
func Flash(symbols *symtab.Index, override *uint32) Resource {
	total, errT := symbols.MustByName("ROM_LENGTH")
	s, errS := symbols.MustByName("_srom")
	e, errE := symbols.MustByName("_erom")
	if errT != nil || errS != nil || errE != nil {
		return Resource{Name: "FLASH", Err: curated.Errorf(curated.KindStructural, "report: missing linker symbol for flash accounting")}
	}
	used := e.Start - s.Start
	totalFlash := total.Start
	if override != nil {
		totalFlash = *override
	}
	u := usage(used, totalFlash)
	return Resource{Name: "FLASH", Used: used, Total: totalFlash, Usage: u, Severity: severity(u, 0.8)}
}

// SRAM computes used/total SRAM from RAM_LENGTH, _sram, _eram, _sstack and
// _estack, with the stack region subtracted from both used and total (the
// stack is budgeted separately by StackBudget). A non-nil override replaces
// the linker-provided RAM_LENGTH total before the stack region is carved
// out of it.
func SRAM(symbols *symtab.Index, override *uint32) Resource {
	total, errT := symbols.MustByName("RAM_LENGTH")
	s, errS := symbols.MustByName("_sram")
	e, errE := symbols.MustByName("_eram")
	ss, errSS := symbols.MustByName("_sstack")
	es, errES := symbols.MustByName("_estack")
	if errT != nil || errS != nil || errE != nil || errSS != nil || errES != nil {
		return Resource{Name: "SRAM", Err: curated.Errorf(curated.KindStructural, "report: missing linker symbol for sram accounting")}
	}
	ramTotal := total.Start
	if override != nil {
		ramTotal = *override
	}
	stackLen := es.Start - ss.Start
	used := (e.Start - s.Start) - stackLen
	totalSRAM := ramTotal - stackLen
	u := usage(used, totalSRAM)
	return Resource{Name: "SRAM", Used: used, Total: totalSRAM, Usage: u, Severity: severity(u, 0.8)}
}

// StackRegion returns the declared stack region length from _sstack and
// _estack, used both as the stack budget total and to carve the stack
// region out of the SRAM accounting above.
func StackRegion(symbols *symtab.Index) (uint32, error) {
	ss, err := symbols.MustByName("_sstack")
	if err != nil {
		return 0, err
	}
	es, err := symbols.MustByName("_estack")
	if err != nil {
		return 0, err
	}
	return es.Start - ss.Start, nil
}

// StackBudget bands the analyzer's computed worst-case depth against the
// declared stack region. Stack uses a stricter ok threshold (50%) than
// flash/sram (80%). A non-nil override replaces the
// linker-provided stack region length.
func StackBudget(symbols *symtab.Index, worst uint32, override *uint32) Resource {
	total, err := StackRegion(symbols)
	if err != nil {
		return Resource{Name: "STACK", Err: err}
	}
	if override != nil {
		total = *override
	}
	u := usage(worst, total)
	return Resource{Name: "STACK", Used: worst, Total: total, Usage: u, Severity: severity(u, 0.5)}
}
