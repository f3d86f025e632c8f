// Package cpu implements the zero-address processor and assembler for the
// ministack system.
//
// The machine is a Harvard design: byte-encoded code memory and integer data
// memory are disjoint. State is a program counter (PC), a data pointer (IP)
// advanced by NEXT, an accumulator (ACC) written by OUT, and an operand stack
// through which all arithmetic flows.
//
// The assembler provides a two-pass translator for the ministack instruction
// set, supporting labels with forward references, macros, equates, and
// compile-time expression evaluation.
package cpu
