// Package emulator runs LS-8 programs on a cpu.Cpu, mapping memory images
// or assembly source onto the machine and driving it to a terminal state.
package emulator

import (
	"io"
	"os"

	"github.com/Issac909/Sprint-Challenge--Computer-Architecture/cpu"
)

// Status is the terminal state of an emulator run.
type Status int

const (
	STATUS_RUNNING = Status(0) // running
	STATUS_HALTED  = Status(1) // halted
	STATUS_FAULTED = Status(2) // faulted
)

// String returns the status name.
func (st Status) String() (name string) {
	switch st {
	case STATUS_RUNNING:
		name = "running"
	case STATUS_HALTED:
		name = "halted"
	case STATUS_FAULTED:
		name = "faulted"
	}

	return
}

// Emulator state. CPU + loaded program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.

	Output io.Writer // PRN destination. Defaults to os.Stdout.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Reset returns the machine to its power-on state and loads the program
// image into memory at address zero.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Reset()

	if len(emu.Program.Bytes) > len(emu.Cpu.Ram) {
		err = cpu.ErrImageFull
		return
	}
	copy(emu.Cpu.Ram[:], emu.Program.Bytes)

	out := emu.Output
	if out == nil {
		out = os.Stdout
	}
	emu.Cpu.Output = out

	return
}

// LoadImage parses a text memory image and resets the machine with it.
func (emu *Emulator) LoadImage(r io.Reader) (err error) {
	prog, err := cpu.ParseImage(r)
	if err != nil {
		return
	}
	emu.Program = prog

	return emu.Reset()
}

// LoadSource assembles LS-8 source and resets the machine with it.
func (emu *Emulator) LoadSource(r io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	prog, err := asm.Parse(r)
	if err != nil {
		return
	}
	emu.Program = prog

	return emu.Reset()
}

// LineNo returns the image line number for the instruction at the PC.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineAt(emu.Cpu.Pc)
}

// Ticks returns the number of instructions retired since reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Tick retires a single instruction.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Cpu.Step()

	return
}

// Run executes the loaded program until it halts or faults.
func (emu *Emulator) Run() (status Status, err error) {
	status = STATUS_RUNNING
	for status == STATUS_RUNNING {
		var done bool
		done, err = emu.Tick()
		if err != nil {
			status = STATUS_FAULTED
			return
		}
		if done {
			status = STATUS_HALTED
		}
	}

	return
}
