package cpu

import (
	"fmt"
)

// Opcode is a single LS-8 instruction byte.
//
// The byte encodes its own decode metadata in fixed bit positions:
//
//	AABCDDDD
//	AA   - number of operand bytes the instruction consumes (0-2)
//	B    - 1 if this is an ALU operation
//	C    - 1 if the instruction sets the PC itself
//	DDDD - instruction identifier
type Opcode uint8

// Instruction set opcodes.
const (
	OP_HLT  = Opcode(0b00000001) // HLT
	OP_LDI  = Opcode(0b10000010) // LDI
	OP_PRN  = Opcode(0b01000111) // PRN
	OP_PUSH = Opcode(0b01000101) // PUSH
	OP_POP  = Opcode(0b01000110) // POP
	OP_CALL = Opcode(0b01010000) // CALL
	OP_RET  = Opcode(0b00010001) // RET
	OP_JMP  = Opcode(0b01010100) // JMP
	OP_JEQ  = Opcode(0b01010101) // JEQ
	OP_JNE  = Opcode(0b01010110) // JNE

	OP_ADD = Opcode(0b10100000) // ADD
	OP_SUB = Opcode(0b10100001) // SUB
	OP_MUL = Opcode(0b10100010) // MUL
	OP_CMP = Opcode(0b10100111) // CMP
)

var opcodeNames = map[Opcode]string{
	OP_HLT:  "HLT",
	OP_LDI:  "LDI",
	OP_PRN:  "PRN",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_CALL: "CALL",
	OP_RET:  "RET",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
	OP_ADD:  "ADD",
	OP_SUB:  "SUB",
	OP_MUL:  "MUL",
	OP_CMP:  "CMP",
}

// Operands returns the number of operand bytes the instruction consumes.
func (op Opcode) Operands() int {
	return int(op >> 6)
}

// IsAlu reports whether the opcode is dispatched to the ALU.
func (op Opcode) IsAlu() bool {
	return (op & (1 << 5)) != 0
}

// SetsPC reports whether the instruction handler owns the next PC value.
// When clear, the engine advances the PC past the instruction encoding.
func (op Opcode) SetsPC() bool {
	return (op & (1 << 4)) != 0
}

// String returns the mnemonic for the opcode, or its bit pattern if the
// opcode is not part of the instruction set.
func (op Opcode) String() string {
	name, ok := opcodeNames[op]
	if !ok {
		name = fmt.Sprintf("0b%08b", uint8(op))
	}
	return name
}
