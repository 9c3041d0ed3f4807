package cpu

import (
	"errors"

	"github.com/Issac909/Sprint-Challenge--Computer-Architecture/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrOpcodeDecode = errors.New(f("unrecognized opcode"))
	ErrAluDecode    = errors.New(f("unmapped alu operation"))

	// Image errors
	ErrImageFull = errors.New(f("image exceeds memory"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrByteSyntax      = errors.New(f(".byte syntax"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandCount    = errors.New(f("operand count"))
)

// ErrRegisterRange indicates an operand byte selecting a register outside
// the register bank.
type ErrRegisterRange uint8

func (er ErrRegisterRange) Error() string {
	return f("register %d out of range", uint8(er))
}

func (er ErrRegisterRange) Is(err error) (ok bool) {
	_, ok = err.(ErrRegisterRange)
	return
}

// ErrOpcode locates a machine fault at the opcode that raised it.
type ErrOpcode struct {
	Pc uint8
	Op Opcode
}

func (eo ErrOpcode) Error() string {
	return f("pc 0x%02x opcode 0x%02x %v", eo.Pc, uint8(eo.Op), eo.Op)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrImageLine locates a memory image parse error at its source line.
type ErrImageLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrImageLine) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrImageLine) Unwrap() error {
	return err.Err
}

// ErrSyntax locates an assembler error at its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrRegisterInvalid string

func (err ErrRegisterInvalid) Error() string {
	return f("'%v' is not a register", string(err))
}
