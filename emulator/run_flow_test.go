package emulator_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/ministack/cpu"
	"github.com/ezrec/ministack/device"
	"github.com/ezrec/ministack/emulator"
)

// Sums a length-prefixed array: data[0] is the element count, the
// elements follow.
const sumSource = `
	PUSH0
	SETIP
	NEXT		; count
	PUSH0		; running sum
	SWAP		; [sum count]
loop:
	DUP
	JZ end
	SWAP		; [count sum]
	NEXT		; [count sum v]
	SWAP
	ADD		; [count sum']
	SWAP		; [sum' count]
	PUSH1
	SUB		; [sum' count-1]
	JMP loop
end:
	POP
	OUT
	HALT
`

var _ = Describe("Emulator", func() {
	var (
		emu      *emulator.Emulator
		recorder *device.Recorder
		trace    []cpu.StepState
	)

	BeforeEach(func() {
		emu = emulator.NewEmulator()
		recorder = &device.Recorder{}
		trace = nil

		emu.Out = recorder
		emu.Tracer = func(state cpu.StepState) {
			trace = append(trace, state)
		}
	})

	Describe("running the array-sum program", func() {
		BeforeEach(func() {
			Expect(emu.LoadData([]int{4, 5, -2, 112, 7})).To(Succeed())
			Expect(emu.LoadSource(strings.NewReader(sumSource))).To(Succeed())
		})

		It("sums the length-prefixed array onto the output port", func() {
			Expect(emu.Run()).To(Succeed())

			Expect(recorder.Values).To(Equal([]int{122}))
			Expect(emu.Outputs()).To(Equal([]int{122}))

			state := emu.State()
			Expect(state.Acc).To(Equal(122))
			Expect(state.Stack).To(BeEmpty())
			Expect(state.Pc).To(Equal(emu.Program.Size()))
		})

		It("traces every executed instruction in order", func() {
			Expect(emu.Run()).To(Succeed())

			Expect(trace).NotTo(BeEmpty())
			Expect(trace[0].Pc).To(Equal(0))
			for i, state := range trace {
				Expect(state.Step).To(Equal(i + 1))
			}
			Expect(trace[len(trace)-1].Op).To(Equal(cpu.OP_HALT))
			Expect(len(trace)).To(Equal(emu.State().Steps))
		})

		It("replays identically after a reset", func() {
			Expect(emu.Run()).To(Succeed())
			first := len(trace)

			Expect(emu.Reset()).To(Succeed())
			trace = nil

			Expect(emu.Run()).To(Succeed())
			Expect(recorder.Values).To(Equal([]int{122, 122}))
			Expect(len(trace)).To(Equal(first))
		})
	})

	Describe("recovering from a fault", func() {
		It("starts from a fresh machine after reset", func() {
			Expect(emu.LoadSource(strings.NewReader("PUSH 3\nPOP\nPOP\nHALT\n"))).To(Succeed())

			err := emu.Run()
			Expect(err).To(MatchError(cpu.ErrStackEmpty))

			Expect(emu.Reset()).To(Succeed())
			state := emu.State()
			Expect(state.Pc).To(Equal(0))
			Expect(state.Steps).To(Equal(0))
			Expect(state.Stack).To(BeEmpty())
		})

		It("locates runtime faults on their source line", func() {
			Expect(emu.LoadSource(strings.NewReader("NOP\nSETIP\nHALT\n"))).To(Succeed())

			err := emu.Run()
			var rterr *emulator.ErrRuntime
			Expect(err).To(BeAssignableToTypeOf(rterr))
			Expect(err.(*emulator.ErrRuntime).LineNo).To(Equal(2))
		})
	})
})
