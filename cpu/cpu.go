package cpu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

const (
	RAM_SIZE      = 256  // Addressable memory cells.
	NUM_REGISTERS = 8    // General-purpose registers.
	REG_SP        = 7    // Register reserved as the stack pointer.
	SP_INIT       = 0xF4 // Power-on stack pointer; the stack grows downward.
)

// Flag register bits, written by CMP and consumed by JEQ/JNE.
const (
	FL_EQ = uint8(1 << 0) // Equal
	FL_GT = uint8(1 << 1) // Greater-than
	FL_LT = uint8(1 << 2) // Less-than
)

// Cpu is the simulation context for the LS-8 machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Output io.Writer // Destination for PRN output.

	Ram      [RAM_SIZE]uint8      // Main memory.
	Register [NUM_REGISTERS]uint8 // Register bank. Register 7 is the SP.
	Pc       uint8                // Program counter.
	Fl       uint8                // Flag register.

	// Operand bytes latched by the most recent fetch. Both are read
	// every cycle regardless of the instruction's operand count; CMP
	// compares through these rather than its dispatch arguments.
	operandA uint8
	operandB uint8

	Ticks int // Retired instruction counter.
}

// NewCpu creates a new machine in its power-on state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Output: os.Stdout,
	}
	cpu.Reset()

	return
}

// Reset returns the machine to its power-on state: memory and registers
// cleared, SP at its initial address, PC at zero.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Ram[:])
	clear(cpu.Register[:])
	cpu.Register[REG_SP] = SP_INIT
	cpu.Pc = 0
	cpu.Fl = 0
	cpu.operandA = 0
	cpu.operandB = 0
	cpu.Ticks = 0
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("pc %02X | %02X %02X %02X | fl %03b |",
		cpu.Pc,
		cpu.RamRead(cpu.Pc),
		cpu.RamRead(cpu.Pc+1),
		cpu.RamRead(cpu.Pc+2),
		cpu.Fl)
	for _, val := range cpu.Register {
		text += fmt.Sprintf(" %02X", val)
	}

	return
}

// RamRead returns the value stored at the given address.
func (cpu *Cpu) RamRead(address uint8) uint8 {
	return cpu.Ram[address]
}

// RamWrite stores a value at the given address.
func (cpu *Cpu) RamWrite(address uint8, value uint8) {
	cpu.Ram[address] = value
}

// regRead returns the value of the register selected by an operand byte.
func (cpu *Cpu) regRead(index uint8) (value uint8, err error) {
	if int(index) >= NUM_REGISTERS {
		err = ErrRegisterRange(index)
		return
	}
	value = cpu.Register[index]

	return
}

// regWrite stores a value in the register selected by an operand byte.
func (cpu *Cpu) regWrite(index uint8, value uint8) (err error) {
	if int(index) >= NUM_REGISTERS {
		err = ErrRegisterRange(index)
		return
	}
	cpu.Register[index] = value

	return
}

// Fetch reads the instruction triple at the PC and returns the opcode.
// The two operand bytes are read and latched unconditionally, even for
// instructions that consume fewer than two.
func (cpu *Cpu) Fetch() (op Opcode) {
	op = Opcode(cpu.RamRead(cpu.Pc))
	cpu.operandA = cpu.RamRead(cpu.Pc + 1)
	cpu.operandB = cpu.RamRead(cpu.Pc + 2)

	return
}

// Step fetches, decodes, and executes a single instruction, then advances
// the PC past the instruction's encoding unless the instruction set the
// PC itself. It reports halted for HLT; a non-nil error is a fatal fault.
func (cpu *Cpu) Step() (halted bool, err error) {
	pc := cpu.Pc
	op := cpu.Fetch()

	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Pc: pc, Op: op}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("ls8: %v", cpu)
	}

	if op.IsAlu() {
		err = cpu.alu(op, cpu.operandA, cpu.operandB)
	} else {
		halted, err = cpu.execute(op)
	}
	if err != nil {
		return
	}

	if !op.SetsPC() {
		cpu.Pc = pc + uint8(op.Operands()) + 1
	}

	cpu.Ticks++

	return
}

// Run executes instructions until the machine halts or faults.
func (cpu *Cpu) Run() (err error) {
	var halted bool
	for !halted {
		halted, err = cpu.Step()
		if err != nil {
			return
		}
	}

	return
}

// execute dispatches a single non-ALU instruction.
func (cpu *Cpu) execute(op Opcode) (halted bool, err error) {
	switch op {
	case OP_HLT:
		halted = true
	case OP_LDI:
		err = cpu.regWrite(cpu.operandA, cpu.operandB)
	case OP_PRN:
		var value uint8
		value, err = cpu.regRead(cpu.operandA)
		if err != nil {
			return
		}
		_, err = fmt.Fprintln(cpu.Output, value)
	case OP_PUSH:
		var value uint8
		value, err = cpu.regRead(cpu.operandA)
		if err != nil {
			return
		}
		cpu.stackPush(value)
	case OP_POP:
		err = cpu.regWrite(cpu.operandA, cpu.stackPop())
	case OP_CALL:
		var target uint8
		target, err = cpu.regRead(cpu.operandA)
		if err != nil {
			return
		}
		// Return address is the instruction after CALL's two-byte form.
		cpu.stackPush(cpu.Pc + 2)
		cpu.Pc = target
	case OP_RET:
		cpu.Pc = cpu.stackPop()
	case OP_JMP:
		cpu.Pc, err = cpu.regRead(cpu.operandA)
	case OP_JEQ:
		var target uint8
		target, err = cpu.regRead(cpu.operandA)
		if err != nil {
			return
		}
		// Classified as PC-setting even when not taken, so the
		// handler advances past the encoding on both paths.
		if (cpu.Fl & FL_EQ) != 0 {
			cpu.Pc = target
		} else {
			cpu.Pc += 2
		}
	case OP_JNE:
		var target uint8
		target, err = cpu.regRead(cpu.operandA)
		if err != nil {
			return
		}
		if (cpu.Fl & FL_EQ) == 0 {
			cpu.Pc = target
		} else {
			cpu.Pc += 2
		}
	default:
		err = ErrOpcodeDecode
	}

	return
}

// alu performs an arithmetic or comparison operation on two registers.
// Arithmetic wraps to 8 bits. CMP fully overwrites the flag register, and
// compares the registers selected by the latched fetch operands rather
// than its regA/regB arguments.
func (cpu *Cpu) alu(op Opcode, regA, regB uint8) (err error) {
	var a, b uint8

	switch op {
	case OP_ADD, OP_SUB, OP_MUL:
		a, err = cpu.regRead(regA)
		if err != nil {
			return
		}
		b, err = cpu.regRead(regB)
		if err != nil {
			return
		}
	}

	switch op {
	case OP_ADD:
		err = cpu.regWrite(regA, a+b)
	case OP_SUB:
		err = cpu.regWrite(regA, a-b)
	case OP_MUL:
		err = cpu.regWrite(regA, a*b)
	case OP_CMP:
		a, err = cpu.regRead(cpu.operandA)
		if err != nil {
			return
		}
		b, err = cpu.regRead(cpu.operandB)
		if err != nil {
			return
		}
		switch {
		case a == b:
			cpu.Fl = FL_EQ
		case a < b:
			cpu.Fl = FL_LT
		default:
			cpu.Fl = FL_GT
		}
	default:
		err = ErrAluDecode
	}

	return
}
