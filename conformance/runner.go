package conformance

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ministack/cpu"
	"github.com/ezrec/ministack/emulator"
	"github.com/ezrec/ministack/mem"
)

// matchFault reports whether err matches the named fault class.
func matchFault(err error, name string) bool {
	switch name {
	case "StackUnderflow":
		return errors.Is(err, cpu.ErrStackEmpty)
	case "CodeOutOfRange":
		return errors.Is(err, cpu.ErrCodeRange(0))
	case "DataOutOfRange":
		return errors.Is(err, mem.ErrIndexRange{}) || errors.Is(err, mem.ErrSeekRange{})
	case "UnknownOpcode":
		return errors.Is(err, cpu.ErrOpcodeUnknown{})
	case "StepLimit":
		return errors.Is(err, emulator.ErrStepLimit)
	case "EmptyLabel":
		return errors.Is(err, cpu.ErrLabelEmpty)
	case "DuplicateLabel":
		return errors.Is(err, cpu.ErrLabelDuplicate)
	case "UnknownMnemonic":
		var target cpu.ErrMnemonicUnknown
		return errors.As(err, &target)
	case "UnknownLabel":
		var target cpu.ErrLabelMissing
		return errors.As(err, &target)
	case "MissingOperand":
		return errors.Is(err, cpu.ErrOperandMissing)
	case "ExtraOperand":
		return errors.Is(err, cpu.ErrOperandExtra)
	case "RangeError":
		return errors.Is(err, cpu.ErrByteRange(0))
	case "BadIntegerLiteral":
		var target cpu.ErrParseNumber
		return errors.As(err, &target)
	}

	return false
}

// values normalizes a nil slice to empty for comparison.
func values(v []int) []int {
	if v == nil {
		return []int{}
	}

	return v
}

// Run executes every test of a suite as a subtest.
func Run(t *testing.T, suite *Suite) {
	for _, tc := range suite.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			runTest(t, tc)
		})
	}
}

func runTest(t *testing.T, tc Test) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()
	if tc.MaxSteps > 0 {
		emu.MaxSteps = tc.MaxSteps
	}
	for equ, value := range tc.Predefine {
		emu.Predefine(equ, value)
	}

	data := tc.Data
	if tc.PrefixLen {
		data = append([]int{len(data)}, data...)
	}
	assert.NoError(emu.LoadData(data))

	err := emu.LoadSource(strings.NewReader(tc.Source))
	if tc.Expect.AsmError != "" {
		if assert.Error(err, "expected assembly fault %v", tc.Expect.AsmError) {
			assert.True(matchFault(err, tc.Expect.AsmError),
				"expected assembly fault %v, got: %v", tc.Expect.AsmError, err)
		}
		return
	}
	if !assert.NoError(err) {
		return
	}

	err = emu.Run()
	if tc.Expect.Error != "" {
		if assert.Error(err, "expected runtime fault %v", tc.Expect.Error) {
			assert.True(matchFault(err, tc.Expect.Error),
				"expected runtime fault %v, got: %v", tc.Expect.Error, err)
		}
	} else {
		assert.NoError(err)
	}

	state := emu.State()
	if tc.Expect.Outputs != nil {
		assert.Equal(values(tc.Expect.Outputs), values(emu.Outputs()))
	}
	if tc.Expect.Acc != nil {
		assert.Equal(*tc.Expect.Acc, state.Acc)
	}
	if tc.Expect.Ip != nil {
		assert.Equal(*tc.Expect.Ip, state.Ip)
	}
	if tc.Expect.Pc != nil {
		assert.Equal(*tc.Expect.Pc, state.Pc)
	}
	if tc.Expect.Steps != nil {
		assert.Equal(*tc.Expect.Steps, state.Steps)
	}
	if tc.Expect.Stack != nil {
		assert.Equal(values(*tc.Expect.Stack), values(state.Stack))
	}
}
