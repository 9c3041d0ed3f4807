package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Issac909/Sprint-Challenge--Computer-Architecture/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
}

func TestStatusString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("running", STATUS_RUNNING.String())
	assert.Equal("halted", STATUS_HALTED.String())
	assert.Equal("faulted", STATUS_FAULTED.String())
}

func doRunImage(emu *Emulator, image []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	buffer := &bytes.Buffer{}
	emu.Output = buffer

	err := emu.LoadImage(strings.NewReader(strings.Join(image, "\n")))
	assert.NoError(err)

	status, err := emu.Run()
	assert.NoError(err)
	assert.Equal(STATUS_HALTED, status)

	output = buffer.Bytes()
	return
}

func doRunSource(emu *Emulator, source []string, t *testing.T) (output []byte) {
	assert := assert.New(t)

	buffer := &bytes.Buffer{}
	emu.Output = buffer

	err := emu.LoadSource(strings.NewReader(strings.Join(source, "\n")))
	assert.NoError(err)

	status, err := emu.Run()
	assert.NoError(err)
	assert.Equal(STATUS_HALTED, status)

	output = buffer.Bytes()
	return
}

func TestEmulatorPrint8(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doRunImage(emu, []string{
		"10000010", // LDI R0,8
		"00000000",
		"00001000",
		"01000111", // PRN R0
		"00000000",
		"00000001", // HLT
	}, t)

	assert.Equal("8\n", string(output))
	assert.Equal(3, emu.Ticks())
}

func TestEmulatorMult(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doRunSource(emu, []string{
		"; mult: print 8 * 9",
		"LDI R0, 8",
		"LDI R1, 9",
		"MUL R0, R1",
		"PRN R0",
		"HLT",
	}, t)

	assert.Equal("72\n", string(output))
}

func TestEmulatorCountdown(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doRunSource(emu, []string{
		"LDI R0, 3",
		"LDI R1, 1",
		"LDI R2, Done",
		"LDI R3, Loop",
		"Loop:",
		"PRN R0",
		"SUB R0, R1",
		"CMP R0, R4",
		"JEQ R2",
		"JMP R3",
		"Done:",
		"HLT",
	}, t)

	assert.Equal("3\n2\n1\n", string(output))
}

func TestEmulatorCallStack(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doRunSource(emu, []string{
		"LDI R1, AddTen",
		"LDI R0, 20",
		"CALL R1",
		"CALL R1",
		"PRN R0",
		"HLT",
		"AddTen:",
		"LDI R2, 10",
		"ADD R0, R2",
		"RET",
	}, t)

	assert.Equal("40\n", string(output))
	assert.Equal(uint8(cpu.SP_INIT), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.LoadImage(strings.NewReader("00000000\n"))
	assert.NoError(err)

	status, err := emu.Run()
	assert.Equal(STATUS_FAULTED, status)
	assert.Error(err)
	assert.True(errors.Is(err, cpu.ErrOpcodeDecode))

	var runtimeErr *ErrRuntime
	assert.True(errors.As(err, &runtimeErr))
	assert.Equal(1, runtimeErr.LineNo)
	assert.Equal(uint8(0), runtimeErr.Pc)
}

func TestEmulatorLoadErrors(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	err := emu.LoadImage(strings.NewReader("LDI R0, 8\n"))
	assert.Error(err)
	var imageErr cpu.ErrImageLine
	assert.True(errors.As(err, &imageErr))

	err = emu.LoadSource(strings.NewReader("NOP\n"))
	assert.Error(err)
	var syntaxErr cpu.ErrSyntax
	assert.True(errors.As(err, &syntaxErr))
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	image := []string{
		"10000010", // LDI R0,8
		"00000000",
		"00001000",
		"00000001", // HLT
	}

	doRunImage(emu, image, t)
	assert.Equal(uint8(8), emu.Cpu.Register[0])

	// Reset reloads the image and replays identically.
	assert.NoError(emu.Reset())
	assert.Equal(uint8(0), emu.Cpu.Register[0])
	assert.Equal(0, emu.Ticks())

	status, err := emu.Run()
	assert.NoError(err)
	assert.Equal(STATUS_HALTED, status)
	assert.Equal(uint8(8), emu.Cpu.Register[0])
	assert.Equal(2, emu.Ticks())
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	buffer := &bytes.Buffer{}
	emu.Output = buffer

	err := emu.LoadSource(strings.NewReader("LDI R0, 8\nHLT\n"))
	assert.NoError(err)

	assert.Equal(1, emu.LineNo())
	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	assert.Equal(2, emu.LineNo())
	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
}
