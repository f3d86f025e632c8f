package cpu

import (
	"fmt"
)

// StepState is a snapshot handed to the Tracer after each executed
// instruction. Its formatting carries no semantic contract.
type StepState struct {
	Step       int   // Monotonic step counter, starting at 1.
	Pc         int   // Program counter of the fetched opcode.
	Next       int   // Program counter after the instruction.
	Op         Op    // Executed opcode.
	Operand    int   // Decoded signed operand, when HasOperand.
	HasOperand bool  // True for JZ, JMP and immediate PUSH.
	Ip         int   // Data pointer after the instruction.
	Acc        int   // Accumulator after the instruction.
	Stack      []int // Copy of the operand stack after the instruction.
}

// Tracer observes machine execution. It is invoked synchronously after
// each step, before the next fetch.
type Tracer func(state StepState)

// String renders the snapshot as a single trace line.
func (st StepState) String() (out string) {
	operand := ""
	if st.HasOperand {
		operand = fmt.Sprintf(" %v", st.Operand)
	}

	out = fmt.Sprintf("PC=%02X OP=%02X %v%v | IP=%v ACC=%v STACK=%v",
		st.Pc, byte(st.Op), st.Op, operand, st.Ip, st.Acc, st.Stack)

	return
}
