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
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Kind tags each line a Reporter emits, so a caller can filter a report's
// contents by section.
type Kind int

const (
	KindFunctionTable Kind = iota
	KindCriticalPath
	KindResourceSummary
	KindWarning
	KindError
)

// Reporter is the info/warn/error capability set: core analysis never
// writes to standard output directly, it only ever produces data; a
// Reporter is injected at the edges to format it.
type Reporter interface {
	Info(kind Kind, line string)
	Warn(kind Kind, line string)
	Error(kind Kind, line string)
}

// PlainReporter writes uncolored lines, for redirected/non-tty destinations
// such as the on-disk report file.
type PlainReporter struct {
	w io.Writer
}

// NewPlainReporter returns a Reporter that writes every line verbatim.
func NewPlainReporter(w io.Writer) *PlainReporter {
	return &PlainReporter{w: w}
}

func (r *PlainReporter) Info(_ Kind, line string) {
	fmt.Fprintln(r.w, line)
}

func (r *PlainReporter) Warn(_ Kind, line string) {
	fmt.Fprintln(r.w, line)
}

func (r *PlainReporter) Error(_ Kind, line string) {
	fmt.Fprintln(r.w, line)
}

// ColorReporter writes ANSI-colored lines for an interactive terminal:
// white for ok/info, orange (yellow) for warnings, red for errors,
// replacing the source's hardcoded ANSI escape constants with
// github.com/fatih/color.
type ColorReporter struct {
	w      io.Writer
	white  *color.Color
	orange *color.Color
	red    *color.Color
}

// NewColorReporter returns a Reporter that colors lines by severity.
func NewColorReporter(w io.Writer) *ColorReporter {
	return &ColorReporter{
		w:      w,
		white:  color.New(color.FgWhite),
		orange: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
}

func (r *ColorReporter) Info(_ Kind, line string) {
	r.white.Fprintln(r.w, line)
}

func (r *ColorReporter) Warn(_ Kind, line string) {
	r.orange.Fprintln(r.w, line)
}

func (r *ColorReporter) Error(_ Kind, line string) {
	r.red.Fprintln(r.w, line)
}
