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

// Package logger is the ambient debug log used by every stackcheck package.
// Entries are domain-tagged (eg. "symtab", "disasm", "analysis", "vectors")
// and accumulated in memory; cmd/stackcheck dumps them verbatim (through
// WriteRecent) into the debug section of the report file rather than
// writing directly to the terminal.
package logger

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Entry is a single log line.
type Entry struct {
	Time   time.Time
	Domain string
	Msg    string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05.000"), e.Domain, e.Msg)
}

var (
	mu      sync.Mutex
	entries []Entry
)

// Logf records a formatted log entry tagged with domain. Safe for
// concurrent use, although stackcheck's core analysis is single-threaded
// for a recent-activity snapshot.
func Logf(domain string, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, Entry{
		Time:   time.Now(),
		Domain: domain,
		Msg:    fmt.Sprintf(format, args...),
	})
}

// Clear empties the log. Used at the start of a fresh analysis run so that
// a long-lived process (eg. a test suite) doesn't accumulate entries from a
// previous run.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}

// WriteRecent writes every entry recorded since the last Clear() to w, one
// per line.
func WriteRecent(w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns a copy of every entry recorded since the last Clear().
func Recent() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
