package emulator

import (
	"github.com/Issac909/Sprint-Challenge--Computer-Architecture/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime fault.
type ErrRuntime struct {
	Pc     uint8
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo != 0 {
		return f("line %d %v", err.LineNo, err.Err)
	}
	return f("pc 0x%02x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
