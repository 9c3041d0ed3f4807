// Package cpu implements the LS-8 microprocessor, its memory image format,
// and an assembler for its instruction set.
//
// The machine consists of 256 bytes of RAM, eight 8-bit general-purpose
// registers (R7 doubles as the stack pointer), a program counter, and a
// flags register written by CMP and consumed by the conditional jumps.
// Every opcode byte carries its own operand count, ALU classification, and
// control-flow classification in fixed bit fields.
//
// The assembler provides mnemonic source for the LS-8 instruction set,
// supporting labels, equates, raw data bytes, and compile-time expression
// evaluation.
package cpu
