package cpu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Program is a loadable memory image, together with the source line that
// produced each byte for fault diagnostics.
type Program struct {
	Bytes []uint8
	Lines []int // Source line number per image byte.
}

// LineAt returns the source line number that produced the byte at the
// given load address, or 0 if the address is past the image.
func (prog *Program) LineAt(address uint8) (lineno int) {
	if int(address) < len(prog.Lines) {
		lineno = prog.Lines[address]
	}

	return
}

// add appends one byte to the image, recording its source line.
func (prog *Program) add(value uint8, lineno int) (err error) {
	if len(prog.Bytes) >= RAM_SIZE {
		err = ErrImageFull
		return
	}
	prog.Bytes = append(prog.Bytes, value)
	prog.Lines = append(prog.Lines, lineno)

	return
}

// Image writes the program in the text memory image format: one 8-bit
// binary literal per line.
func (prog *Program) Image(w io.Writer) (err error) {
	for _, value := range prog.Bytes {
		_, err = fmt.Fprintf(w, "%08b\n", value)
		if err != nil {
			return
		}
	}

	return
}

// ParseImage reads a text memory image: one 8-bit binary literal per line,
// with '#' starting a comment and blank lines skipped. The image loads at
// address zero.
func ParseImage(r io.Reader) (prog *Program, err error) {
	prog = &Program{}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		text, _, _ := strings.Cut(line, "#")
		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		value, perr := strconv.ParseUint(text, 2, 8)
		if perr != nil {
			err = ErrImageLine{LineNo: lineno, Line: line, Err: ErrParseNumber(text)}
			return
		}

		err = prog.add(uint8(value), lineno)
		if err != nil {
			err = ErrImageLine{LineNo: lineno, Line: line, Err: err}
			return
		}
	}
	err = scanner.Err()

	return
}
