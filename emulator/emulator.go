// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/ezrec/ministack/cpu"
	"github.com/ezrec/ministack/device"
	"github.com/ezrec/ministack/internal"
)

const (
	MAX_STEPS = 1_000_000 // Default run budget for Run().
)

// Emulator wires an assembled program, a data image, and an output port
// into a runnable machine.
type Emulator struct {
	Verbose bool // If set, enables verbose assembler logging.

	Machine *cpu.Machine // Machine under emulation.
	Program *cpu.Program // Currently loaded program listing.

	Out      device.OutPort // Output port; nil records OUT events only.
	Tracer   cpu.Tracer     // Optional per-step observer.
	MaxSteps int            // Run budget for Run().

	data      []int
	predefine map[string]string
}

// NewEmulator creates a new emulator with no program and empty data.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program:  &cpu.Program{},
		MaxSteps: MAX_STEPS,
	}
	emu.Machine = cpu.NewMachine(nil, nil)

	return
}

// Predefine publishes an equate to programs assembled by LoadSource.
func (emu *Emulator) Predefine(equ string, value string) {
	if emu.predefine == nil {
		emu.predefine = map[string]string{equ: value}
	} else {
		emu.predefine[equ] = value
	}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		maps.All(map[string]string{
			"STEP_LIMIT": fmt.Sprintf("%v", emu.MaxSteps),
		}),
		emu.Machine.Defines(),
		maps.All(emu.predefine),
	)
}

// LoadSource assembles source text with the emulator defines applied,
// and resets the machine over the assembled program.
func (emu *Emulator) LoadSource(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog

	return emu.Reset()
}

// LoadProgram loads an already assembled program and resets the machine.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	emu.Program = prog

	return emu.Reset()
}

// LoadData replaces the initial data image and resets the machine.
func (emu *Emulator) LoadData(data []int) (err error) {
	emu.data = slices.Clone(data)

	return emu.Reset()
}

// Reset constructs a fresh machine over the loaded program and data.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		err = ErrNoProgram
		return
	}

	emu.Machine = cpu.NewMachine(emu.Program.Code, emu.data)
	emu.Machine.Out = emu.Out
	emu.Machine.Tracer = emu.Tracer

	return
}

// LineNo returns the source line number of the next instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.Pc)
	if dbg.Entry == nil {
		return 0
	}

	return dbg.Entry.LineNo
}

// State returns a snapshot of the machine registers.
func (emu *Emulator) State() cpu.State {
	return emu.Machine.State()
}

// Outputs returns the ordered OUT event values since the last reset.
func (emu *Emulator) Outputs() []int {
	return slices.Clone(emu.Machine.Outputs)
}

// Step executes one instruction. Runtime faults are located on their
// source line.
func (emu *Emulator) Step() (more bool, err error) {
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	more, err = emu.Machine.Step()

	return
}

// Run steps the machine until HALT, a fault, or the MaxSteps budget.
func (emu *Emulator) Run() (err error) {
	for range emu.MaxSteps {
		var more bool
		more, err = emu.Step()
		if err != nil || !more {
			return
		}
	}

	err = ErrStepLimit

	return
}
