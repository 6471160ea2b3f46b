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

// Package curated provides a single error type used throughout stackcheck.
// Errors carry a Kind so that callers further up the stack (principally
// cmd/stackcheck and report) can decide whether a failure still permits
// partial resource-summary output.
package curated

import (
	"errors"
	"fmt"
)

// Kind categorises a curated error.
type Kind int

const (
	// KindStructural covers missing linker symbols, gaps in assembly,
	// unknown stack-pointer manipulation and similar fatal parse errors.
	KindStructural Kind = iota

	// KindSemantic covers recursion detected between two named functions.
	KindSemantic

	// KindBudget covers flash/sram/stack budget violations. These are not
	// fatal to the report: the report still prints, but the process exits
	// nonzero.
	KindBudget
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindSemantic:
		return "semantic"
	case KindBudget:
		return "budget"
	default:
		return "unknown"
	}
}

// Error is the curated error type. It behaves like a normal wrapped error
// (Unwrap works, errors.Is/As work) but additionally exposes Kind().
type Error struct {
	kind Kind
	err  error
}

// Errorf creates a curated error of the given kind, formatting exactly like
// fmt.Errorf (including %w support for wrapping).
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.err.Error()
}

// Unwrap allows errors.Is/As to see through to the wrapped error.
func (e *Error) Unwrap() error {
	return errors.Unwrap(e.err)
}

// Kind returns the error's category.
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf returns the Kind of err if it is (or wraps) a curated Error, and
// false if it is an ordinary error.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.kind, true
	}
	return 0, false
}
