package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImage(t *testing.T) {
	assert := assert.New(t)

	image := strings.Join([]string{
		"# print8.ls8: loads 8 into R0 and prints it",
		"",
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}, "\n")

	prog, err := ParseImage(strings.NewReader(image))
	assert.NoError(err)
	assert.Equal([]uint8{
		uint8(OP_LDI), 0, 8,
		uint8(OP_PRN), 0,
		uint8(OP_HLT),
	}, prog.Bytes)
}

func TestParseImage_LineAt(t *testing.T) {
	assert := assert.New(t)

	image := strings.Join([]string{
		"# comment only",
		"10000010",
		"",
		"00000000",
		"00001000",
	}, "\n")

	prog, err := ParseImage(strings.NewReader(image))
	assert.NoError(err)
	assert.Equal(2, prog.LineAt(0))
	assert.Equal(4, prog.LineAt(1))
	assert.Equal(5, prog.LineAt(2))
	assert.Equal(0, prog.LineAt(3))
}

func TestParseImage_Malformed(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		line string
	}){
		{"decimal", "8"},
		{"hex", "0x82"},
		{"too_wide", "100000010"},
		{"garbage", "LDI"},
	}

	for _, entry := range table {
		_, err := ParseImage(strings.NewReader(entry.line + "\n"))
		assert.Error(err, entry.name)

		var imageErr ErrImageLine
		assert.True(errors.As(err, &imageErr), entry.name)
		assert.Equal(1, imageErr.LineNo, entry.name)

		var numErr ErrParseNumber
		assert.True(errors.As(err, &numErr), entry.name)
	}
}

func TestParseImage_Full(t *testing.T) {
	assert := assert.New(t)

	image := strings.Repeat("00000001\n", RAM_SIZE)
	prog, err := ParseImage(strings.NewReader(image))
	assert.NoError(err)
	assert.Equal(RAM_SIZE, len(prog.Bytes))

	image += "00000001\n"
	_, err = ParseImage(strings.NewReader(image))
	assert.Error(err)
	assert.True(errors.Is(err, ErrImageFull))
}

func TestImageRoundTrip(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	for n, value := range []uint8{uint8(OP_LDI), 0, 8, uint8(OP_HLT)} {
		assert.NoError(prog.add(value, n+1))
	}

	buf := &bytes.Buffer{}
	assert.NoError(prog.Image(buf))
	assert.Equal("10000010\n00000000\n00001000\n00000001\n", buf.String())

	again, err := ParseImage(buf)
	assert.NoError(err)
	assert.Equal(prog.Bytes, again.Bytes)
}

func FuzzParseImage(f *testing.F) {
	f.Add("10000010\n00000000\n00001000\n01000111\n00000000\n00000001\n")
	f.Add("# comment only\n\n")
	f.Add("2\n")
	f.Add("00000001 # trailing\n")

	f.Fuzz(func(t *testing.T, text string) {
		prog, err := ParseImage(strings.NewReader(text))
		if err != nil {
			return
		}

		// Anything that parses re-emits to an image that parses identically.
		buf := &bytes.Buffer{}
		assert.NoError(t, prog.Image(buf))
		again, err := ParseImage(buf)
		assert.NoError(t, err)
		assert.Equal(t, prog.Bytes, again.Bytes)
	})
}
