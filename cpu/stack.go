package cpu

// The stack lives in main memory and grows downward from SP_INIT.
// Register 7 is the stack pointer and always addresses the current top.

// stackPush decrements the SP and stores a value at the new top of stack.
func (cpu *Cpu) stackPush(value uint8) {
	cpu.Register[REG_SP]--
	cpu.RamWrite(cpu.Register[REG_SP], value)
}

// stackPop returns the value at the top of stack and increments the SP.
func (cpu *Cpu) stackPop() (value uint8) {
	value = cpu.RamRead(cpu.Register[REG_SP])
	cpu.Register[REG_SP]++

	return
}

// stackPeek returns the value at the top of stack without moving the SP.
func (cpu *Cpu) stackPeek() (value uint8) {
	return cpu.RamRead(cpu.Register[REG_SP])
}
