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
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cpre458/stackcheck/internal/curated"
	"github.com/cpre458/stackcheck/internal/logger"
)

// Stream is a sorted, indexable sequence of decoded instructions spanning
// every disassembled executable section (.text and any in-RAM relocate
// section).
type Stream struct {
	instructions []Instruction
}

// At returns the instruction at position i.
func (s *Stream) At(i int) Instruction {
	return s.instructions[i]
}

// Len returns the number of instructions in the stream.
func (s *Stream) Len() int {
	return len(s.instructions)
}

// Find returns the index of the first instruction at or after addr, using
// binary search (the Go-idiomatic replacement for bisect.bisect_left,
// bisect.bisect_left).
func (s *Stream) Find(addr uint32) int {
	return sort.Search(len(s.instructions), func(i int) bool {
		return s.instructions[i].Addr >= addr
	})
}

var instructionLine = regexp.MustCompile(
	`^\s*([0-9a-fA-F]+):\s+((?:[0-9a-fA-F]{2}\s*)+?)\s+(\S+)(?:\s+([^@;]*))?`)

var repeatedLine = regexp.MustCompile(`^\s*\.\.\.\s*$`)

// Parse reads objdump-style disassembly text and returns a Stream sorted by
// address.
func Parse(r io.Reader) (*Stream, error) {
	var instructions []Instruction

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if repeatedLine.MatchString(line) {
			if len(instructions) == 0 {
				return nil, curated.Errorf(curated.KindStructural, "disasm: \"...\" continuation with no preceding instruction")
			}
			instructions[len(instructions)-1].Repeated = true
			continue
		}

		m := instructionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		addr, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			continue
		}
		mnemonic := m[3]
		if mnemonic == "" {
			continue
		}

		encBytes, byteLen, err := decodeEncoding(m[2])
		if err != nil {
			return nil, curated.Errorf(curated.KindStructural, "disasm: %w (line %q)", err, line)
		}

		rest := strings.TrimSpace(m[4])

		var operands [3]Operand
		// push/pop register lists are a single bracketed operand even
		// though they contain commas; everything else is split on
		// top-level commas into up to three operands.
		if mnemonic == "push" || mnemonic == "pop" {
			operands[0] = Operand{Kind: Token, Tok: rest, Raw: rest}
		} else {
			args := splitTopLevel(rest, ',')
			for i := 0; i < 3 && i < len(args); i++ {
				operands[i] = parseOperand(stripSymbolAnnotation(trimSpace(args[i])))
			}
		}

		instructions = append(instructions, Instruction{
			Addr:     uint32(addr),
			ByteLen:  byteLen,
			Encoding: encBytes,
			Mnemonic: mnemonic,
			Arg0:     operands[0],
			Arg1:     operands[1],
			Arg2:     operands[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(curated.KindStructural, "disasm: %w", err)
	}

	sort.Slice(instructions, func(i, j int) bool { return instructions[i].Addr < instructions[j].Addr })

	logger.Logf("disasm", "parsed %d instructions", len(instructions))

	return &Stream{instructions: instructions}, nil
}

// decodeEncoding turns the disassembler's whitespace-separated hex byte
// listing (little-endian in the source text) into a big-endian numeric
// encoding.
func decodeEncoding(hexBytes string) (uint32, int, error) {
	hexBytes = strings.ReplaceAll(hexBytes, " ", "")
	if len(hexBytes)%2 != 0 {
		return 0, 0, curated.Errorf(curated.KindStructural, "odd-length encoding %q", hexBytes)
	}

	n := len(hexBytes) / 2
	var reversed strings.Builder
	for i := n - 1; i >= 0; i-- {
		reversed.WriteString(hexBytes[i*2 : i*2+2])
	}

	v, err := strconv.ParseUint(reversed.String(), 16, 64)
	if err != nil {
		return 0, 0, curated.Errorf(curated.KindStructural, "malformed encoding %q", hexBytes)
	}
	return uint32(v), n, nil
}

// stripSymbolAnnotation removes a trailing "<symbol+offset>" annotation
// that objdump appends to branch targets, eg. "1000 <foo>" becomes "1000".
// Operands that are themselves bracketed addressing expressions (eg.
// "[pc, #0x19c]") are left untouched.
func stripSymbolAnnotation(tok string) string {
	if len(tok) > 0 && tok[0] == '[' {
		return tok
	}
	if idx := strings.Index(tok, " <"); idx >= 0 {
		return trimSpace(tok[:idx])
	}
	return tok
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// brackets/braces, so a push/pop register list isn't mistaken for three
// separate operands.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if start <= len(s) {
		out = append(out, s[start:])
	}
	var trimmed []string
	for _, p := range out {
		p = trimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return trimmed
}
