package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// stmt is a parsed source statement awaiting operand resolution.
type stmt struct {
	LineNo  int
	Line    string
	Address int
	Op      Opcode
	Data    bool // .byte statement; Args hold raw data values.
	Args    []string
}

// Assembler is a two-pass assembler for the LS-8 instruction set.
// The first pass parses statements and assigns load addresses to labels;
// the second resolves operands and encodes the memory image.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int    // Map of jump labels to load addresses.
	Equate map[string]string // Map of equates.

	stmts   []stmt
	address int
}

// registerMap is the register operand names.
var registerMap = map[string]uint8{
	"R0": 0,
	"R1": 1,
	"R2": 2,
	"R3": 3,
	"R4": 4,
	"R5": 5,
	"R6": 6,
	"R7": 7,
	"SP": REG_SP,
}

// opcodeMap is the mnemonic set accepted by the assembler.
var opcodeMap = map[string]Opcode{
	"HLT":  OP_HLT,
	"LDI":  OP_LDI,
	"PRN":  OP_PRN,
	"PUSH": OP_PUSH,
	"POP":  OP_POP,
	"CALL": OP_CALL,
	"RET":  OP_RET,
	"JMP":  OP_JMP,
	"JEQ":  OP_JEQ,
	"JNE":  OP_JNE,
	"ADD":  OP_ADD,
	"SUB":  OP_SUB,
	"MUL":  OP_MUL,
	"CMP":  OP_CMP,
}

// operand is the kind of a single instruction operand.
type operand int

const (
	operandReg   = operand(iota) // register index
	operandValue                 // immediate value, label, or expression
)

// opcodeArgs is the operand pattern per mnemonic. Pattern length always
// matches the operand count encoded in the opcode byte.
var opcodeArgs = map[Opcode][]operand{
	OP_HLT:  {},
	OP_RET:  {},
	OP_LDI:  {operandReg, operandValue},
	OP_PRN:  {operandReg},
	OP_PUSH: {operandReg},
	OP_POP:  {operandReg},
	OP_CALL: {operandReg},
	OP_JMP:  {operandReg},
	OP_JEQ:  {operandReg},
	OP_JNE:  {operandReg},
	OP_ADD:  {operandReg, operandReg},
	OP_SUB:  {operandReg, operandReg},
	OP_MUL:  {operandReg, operandReg},
	OP_CMP:  {operandReg, operandReg},
}

// registerOf resolves a register operand word.
func registerOf(word string) (index uint8, err error) {
	index, ok := registerMap[strings.ToUpper(word)]
	if !ok {
		err = ErrRegisterInvalid(word)
	}

	return
}

// valueOf resolves a label or a numeric literal to an image byte.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	if address, ok := asm.Label[word]; ok {
		value = uint8(address)
		return
	}

	v64, perr := strconv.ParseInt(word, 0, 16)
	if perr != nil {
		if len(word) > 0 && (unicode.IsLetter(rune(word[0])) || word[0] == '_') {
			err = ErrLabelMissing(word)
		} else {
			err = ErrParseNumber(word)
		}
		return
	}
	if v64 < -128 || v64 > 255 {
		err = ErrParseNumber(word)
		return
	}
	value = uint8(v64)

	return
}

// parenEval does compile-time $(...) evaluations, with equates, labels
// seen so far, and LINENO predeclared.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value8, verr := asm.valueOf(str)
		if verr != nil {
			// Ignore non-numeric equates.
			continue
		}
		pred[key] = starlark.MakeInt(int(value8))
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// parseLine parses a single source line into labels, equates, and at most
// one statement.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	text := line
	if at := strings.IndexAny(text, ";#"); at >= 0 {
		text = text[:at]
	}

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	text = re.ReplaceAllStringFunc(text, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	text = strings.ReplaceAll(text, ",", " ")
	words := strings.Fields(text)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	// Check for equates next.
	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// Leading labels mark the current load address.
	for strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.address
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .byte VALUE...
	if words[0] == ".byte" {
		if len(words) < 2 {
			err = ErrByteSyntax
			return
		}
		asm.stmts = append(asm.stmts, stmt{
			LineNo:  lineno,
			Line:    line,
			Address: asm.address,
			Data:    true,
			Args:    words[1:],
		})
		asm.address += len(words) - 1
		return
	}

	op, ok := opcodeMap[strings.ToUpper(words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	if len(args) != len(opcodeArgs[op]) {
		err = ErrOperandCount
		return
	}

	if asm.Verbose {
		log.Printf("asm: %03d @%02x %v %v", lineno, asm.address, op, args)
	}

	asm.stmts = append(asm.stmts, stmt{
		LineNo:  lineno,
		Line:    line,
		Address: asm.address,
		Op:      op,
		Args:    args,
	})
	asm.address += 1 + op.Operands()

	return
}

// encode resolves a statement's operands and appends its encoding.
func (asm *Assembler) encode(prog *Program, st stmt) (err error) {
	if len(prog.Bytes) != st.Address {
		panic("statement address drift")
	}

	if st.Data {
		for _, arg := range st.Args {
			var value uint8
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			err = prog.add(value, st.LineNo)
			if err != nil {
				return
			}
		}
		return
	}

	err = prog.add(uint8(st.Op), st.LineNo)
	if err != nil {
		return
	}
	for n, kind := range opcodeArgs[st.Op] {
		var value uint8
		switch kind {
		case operandReg:
			value, err = registerOf(st.Args[n])
		case operandValue:
			value, err = asm.valueOf(st.Args[n])
		}
		if err != nil {
			return
		}
		err = prog.add(value, st.LineNo)
		if err != nil {
			return
		}
	}

	return
}

// Parse assembles LS-8 source into a loadable program.
func (asm *Assembler) Parse(r io.Reader) (prog *Program, err error) {
	asm.Label = make(map[string]int, 16)
	if asm.Equate == nil {
		asm.Equate = make(map[string]string, 16)
	}
	asm.stmts = nil
	asm.address = 0

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		err = asm.parseLine(line, lineno)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{}
	for _, st := range asm.stmts {
		err = asm.encode(prog, st)
		if err != nil {
			err = ErrSyntax{LineNo: st.LineNo, Line: st.Line, Err: err}
			prog = nil
			return
		}
	}

	return
}
