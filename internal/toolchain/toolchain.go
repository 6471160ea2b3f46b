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

// Package toolchain shells out to the arm-none-eabi-{nm,objdump,objcopy}
// triplet to produce the raw inputs the core analyzer consumes. This is a
// thin external collaborator: it owns no analysis logic, only the quirks of
// invoking the toolchain binaries themselves.
package toolchain

import (
	"bufio"
	"bytes"
	"debug/elf"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/cpre458/stackcheck/internal/curated"
	"github.com/cpre458/stackcheck/internal/logger"
)

// Toolchain names the three binaries invoked against an ELF image. Default
// returns the conventional arm-none-eabi- prefixed names; the zero value
// names no binaries.
type Toolchain struct {
	NM      string
	Objdump string
	Objcopy string
}

// Default is the conventional arm-none-eabi-gcc toolchain naming.
func Default() Toolchain {
	return Toolchain{
		NM:      "arm-none-eabi-nm",
		Objdump: "arm-none-eabi-objdump",
		Objcopy: "arm-none-eabi-objcopy",
	}
}

// SymbolTable runs `nm -n --print-size --special-syms` against elfPath and
// normalizes its output so every line has exactly four fields. GCC's nm
// omits the size field for zero-size linker symbols; LLVM's nm always
// prints one. The analyzer's symtab.Parse only ever sees the normalized,
// four-field form.
func (t Toolchain) SymbolTable(elfPath string) (string, error) {
	out, err := exec.Command(t.NM, "-n", "--print-size", "--special-syms", elfPath).Output()
	if err != nil {
		return "", curated.Errorf(curated.KindStructural, "toolchain: nm: %w", wrapExitErr(err))
	}

	var b strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			fields = append([]string{fields[0], "00000000"}, fields[1:]...)
		}
		b.WriteString(strings.Join(fields, " "))
		b.WriteByte('\n')
	}
	logger.Logf("toolchain", "nm: normalized symbol table for %s", elfPath)
	return b.String(), nil
}

// Disassembly runs `objdump --disassemble` against the executable sections
// relevant to stack analysis: .text (ROM code) and .relocate (code stored
// in flash but executed from RAM).
func (t Toolchain) Disassembly(elfPath string) (string, error) {
	out, err := exec.Command(t.Objdump, "--disassemble", "--section=.text", "--section=.relocate", elfPath).Output()
	if err != nil {
		return "", curated.Errorf(curated.KindStructural, "toolchain: objdump: %w", wrapExitErr(err))
	}
	logger.Logf("toolchain", "objdump: disassembled %s", elfPath)
	return string(out), nil
}

// VectorTableBytes extracts the raw bytes of the vector table. It prefers a
// dedicated .vectors section (objcopy -O binary --only-section=.vectors);
// if the image has no such section, it falls back to the head of the whole
// binary image, matching the reference behaviour for images that place the
// vector table directly at the start of .text instead of a named section.
//
// GCC's objcopy cannot write binary output to stdout; LLVM's can. To avoid
// depending on which one is installed, this always goes through a temp
// file.
func (t Toolchain) VectorTableBytes(elfPath string) ([]byte, error) {
	if out, err := t.objcopyBinary(elfPath, "--only-section=.vectors"); err == nil && len(out) > 0 {
		return out, nil
	}
	return t.objcopyBinary(elfPath)
}

func (t Toolchain) objcopyBinary(elfPath string, extraArgs ...string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "stackcheck-*.bin")
	if err != nil {
		return nil, curated.Errorf(curated.KindStructural, "toolchain: objcopy: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := append([]string{"-O", "binary"}, extraArgs...)
	args = append(args, elfPath, tmpPath)
	if err := exec.Command(t.Objcopy, args...).Run(); err != nil {
		return nil, curated.Errorf(curated.KindStructural, "toolchain: objcopy: %w", wrapExitErr(err))
	}

	return os.ReadFile(tmpPath)
}

// VectorTableBytesFromELF is a debug/elf fallback for tests and for hosts
// without the arm-none-eabi toolchain installed: it reads a named section's
// bytes directly out of the ELF file.
func VectorTableBytesFromELF(elfPath, section string) ([]byte, error) {
	f, err := elf.Open(elfPath)
	if err != nil {
		return nil, curated.Errorf(curated.KindStructural, "toolchain: %w", err)
	}
	defer f.Close()

	sec := f.Section(section)
	if sec == nil {
		return nil, curated.Errorf(curated.KindStructural, "toolchain: no %s section in %s", section, elfPath)
	}
	return sec.Data()
}

func wrapExitErr(err error) error {
	if ee, ok := err.(*exec.ExitError); ok {
		return errors.New(strings.TrimSpace(string(ee.Stderr)))
	}
	return err
}
