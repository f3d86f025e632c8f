package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/ezrec/ministack/device"
	"github.com/ezrec/ministack/mem"
)

// State is a point-in-time snapshot of the machine registers.
type State struct {
	Pc    int   // Program counter.
	Ip    int   // Data pointer.
	Acc   int   // Accumulator.
	Steps int   // Executed instruction count.
	Stack []int // Copy of the operand stack.
}

// Machine is the zero-address processor. Code memory is immutable once
// loaded; data memory is mutable through NEXT/SETIP/LOAD/STORE only.
//
// Stack values are machine ints; MUL overflow wraps at the native word
// size. Only operand bytes in code memory are contractually 8-bit.
type Machine struct {
	Out    device.OutPort // Optional output port for OUT events.
	Tracer Tracer         // Optional per-step observer.

	Pc    int       // Program counter.
	Acc   int       // Accumulator, written by OUT.
	Stack Stack     // Operand stack.
	Data  *mem.Data // Data memory with the NEXT cursor.

	Steps   int   // Executed instruction count.
	Outputs []int // Ordered OUT event values.

	code []byte
}

// NewMachine creates a machine over copies of the supplied code and data.
// The caller's buffers are never aliased.
func NewMachine(code []byte, data []int) (m *Machine) {
	m = &Machine{
		code: slices.Clone(code),
		Data: mem.NewData(data),
	}

	return
}

// Code returns a copy of code memory.
func (m *Machine) Code() []byte {
	return slices.Clone(m.code)
}

// State returns a snapshot of the machine registers.
func (m *Machine) State() State {
	return State{
		Pc:    m.Pc,
		Ip:    m.Data.Cursor(),
		Acc:   m.Acc,
		Steps: m.Steps,
		Stack: slices.Clone(m.Stack.Data),
	}
}

// Defines returns the machine equates visible to assembling programs.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"DATA_LEN": fmt.Sprintf("%v", m.Data.Len()),
	})
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	state := m.State()

	text += fmt.Sprintf("% 5s: %v\n", "pc", state.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "ip", state.Ip)
	text += fmt.Sprintf("% 5s: %v\n", "acc", state.Acc)
	text += fmt.Sprintf("% 5s: %v\n", "stack", state.Stack)
	text += fmt.Sprintf("% 5s: %v\n", "steps", state.Steps)

	return
}

// fetch reads code[pc] and advances the program counter.
func (m *Machine) fetch() (b byte, err error) {
	if m.Pc < 0 || m.Pc >= len(m.code) {
		err = ErrCodeRange(m.Pc)
		return
	}

	b = m.code[m.Pc]
	m.Pc += 1

	return
}

// pop removes and returns the top of the operand stack.
func (m *Machine) pop() (value int, err error) {
	value, ok := m.Stack.Pop()
	if !ok {
		err = ErrStackEmpty
	}

	return
}

// Step executes exactly one instruction. It reports whether execution
// should continue; false only after HALT. Any fault aborts the run
// through the error return.
func (m *Machine) Step() (more bool, err error) {
	pc := m.Pc

	opbyte, err := m.fetch()
	if err != nil {
		return
	}
	op := Op(opbyte)

	var operand int
	hasOperand := op.HasOperand()
	if hasOperand {
		var offbyte byte
		offbyte, err = m.fetch()
		if err != nil {
			return
		}
		operand = DecodeSigned(offbyte)
	}

	switch op {
	case OP_NOP:
		// pass

	case OP_HALT:
		// handled below

	case OP_PUSH0:
		m.Stack.Push(0)

	case OP_PUSH1:
		m.Stack.Push(1)

	case OP_ADD, OP_SUB, OP_MUL, OP_LT:
		// b is the later-pushed right operand.
		var a, b int
		b, err = m.pop()
		if err != nil {
			return
		}
		a, err = m.pop()
		if err != nil {
			return
		}
		switch op {
		case OP_ADD:
			m.Stack.Push(a + b)
		case OP_SUB:
			m.Stack.Push(a - b)
		case OP_MUL:
			m.Stack.Push(a * b)
		case OP_LT:
			if a < b {
				m.Stack.Push(1)
			} else {
				m.Stack.Push(0)
			}
		}

	case OP_DUP:
		var v int
		v, err = m.pop()
		if err != nil {
			return
		}
		m.Stack.Push(v)
		m.Stack.Push(v)

	case OP_SWAP:
		var a, b int
		b, err = m.pop()
		if err != nil {
			return
		}
		a, err = m.pop()
		if err != nil {
			return
		}
		m.Stack.Push(b)
		m.Stack.Push(a)

	case OP_POP:
		_, err = m.pop()
		if err != nil {
			return
		}

	case OP_NEXT:
		var v int
		v, err = m.Data.Next()
		if err != nil {
			return
		}
		m.Stack.Push(v)

	case OP_SETIP:
		var v int
		v, err = m.pop()
		if err != nil {
			return
		}
		err = m.Data.Seek(v)
		if err != nil {
			return
		}

	case OP_JZ:
		var cond int
		cond, err = m.pop()
		if err != nil {
			return
		}
		if cond == 0 {
			// Relative to the address after the full 2-byte instruction.
			m.Pc += operand
		}

	case OP_JMP:
		m.Pc += operand

	case OP_OUT:
		var v int
		v, err = m.pop()
		if err != nil {
			return
		}
		m.Acc = v
		m.Outputs = append(m.Outputs, v)
		if m.Out != nil {
			err = m.Out.Emit(v)
			if err != nil {
				return
			}
		}

	case OP_LOAD:
		var addr, v int
		addr, err = m.pop()
		if err != nil {
			return
		}
		v, err = m.Data.Load(addr)
		if err != nil {
			return
		}
		m.Stack.Push(v)

	case OP_STORE:
		var addr, v int
		v, err = m.pop()
		if err != nil {
			return
		}
		addr, err = m.pop()
		if err != nil {
			return
		}
		err = m.Data.Store(addr, v)
		if err != nil {
			return
		}

	case OP_PUSH:
		m.Stack.Push(operand)

	default:
		err = ErrOpcodeUnknown{Op: op, Pc: pc}
		return
	}

	m.Steps += 1
	more = op != OP_HALT

	if m.Tracer != nil {
		m.Tracer(StepState{
			Step:       m.Steps,
			Pc:         pc,
			Next:       m.Pc,
			Op:         op,
			Operand:    operand,
			HasOperand: hasOperand,
			Ip:         m.Data.Cursor(),
			Acc:        m.Acc,
			Stack:      slices.Clone(m.Stack.Data),
		})
	}

	return
}

// Run steps the machine until HALT or a fault.
func (m *Machine) Run() (err error) {
	for {
		var more bool
		more, err = m.Step()
		if err != nil || !more {
			return
		}
	}
}
