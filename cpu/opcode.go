package cpu

import (
	"strings"
)

// Op is a single-byte opcode of the zero-address instruction set.
type Op byte

// The baseline set occupies 0x00-0x0F. The extended memory operations
// (LOAD, STORE, immediate PUSH) are assigned disjoint byte values so that
// both sets can coexist in one code image.
//
//go:generate go tool stringer -linecomment -type=Op
const (
	OP_NOP   = Op(0x00) // NOP
	OP_HALT  = Op(0x01) // HALT
	OP_PUSH0 = Op(0x02) // PUSH0
	OP_PUSH1 = Op(0x03) // PUSH1
	OP_ADD   = Op(0x04) // ADD
	OP_SUB   = Op(0x05) // SUB
	OP_MUL   = Op(0x06) // MUL
	OP_DUP   = Op(0x07) // DUP
	OP_SWAP  = Op(0x08) // SWAP
	OP_POP   = Op(0x09) // POP
	OP_NEXT  = Op(0x0A) // NEXT
	OP_SETIP = Op(0x0B) // SETIP
	OP_JZ    = Op(0x0C) // JZ
	OP_JMP   = Op(0x0D) // JMP
	OP_LT    = Op(0x0E) // LT
	OP_OUT   = Op(0x0F) // OUT
	OP_LOAD  = Op(0x10) // LOAD
	OP_STORE = Op(0x11) // STORE
	OP_PUSH  = Op(0x12) // PUSH
)

// opMap maps mnemonics to opcodes.
var opMap = map[string]Op{
	"NOP":   OP_NOP,
	"HALT":  OP_HALT,
	"PUSH0": OP_PUSH0,
	"PUSH1": OP_PUSH1,
	"ADD":   OP_ADD,
	"SUB":   OP_SUB,
	"MUL":   OP_MUL,
	"DUP":   OP_DUP,
	"SWAP":  OP_SWAP,
	"POP":   OP_POP,
	"NEXT":  OP_NEXT,
	"SETIP": OP_SETIP,
	"JZ":    OP_JZ,
	"JMP":   OP_JMP,
	"LT":    OP_LT,
	"OUT":   OP_OUT,
	"LOAD":  OP_LOAD,
	"STORE": OP_STORE,
	"PUSH":  OP_PUSH,
}

// Lookup finds the opcode for a mnemonic. Mnemonics are case-insensitive.
func Lookup(mnemonic string) (op Op, ok bool) {
	op, ok = opMap[strings.ToUpper(mnemonic)]
	return
}

// Mnemonic returns the assembly mnemonic for the opcode.
func (op Op) Mnemonic() string {
	return op.String()
}

// Valid returns true if the byte value is an assigned opcode.
func (op Op) Valid() bool {
	return op <= OP_PUSH
}

// HasOperand returns true if the opcode is followed by a one-byte operand.
func (op Op) HasOperand() bool {
	switch op {
	case OP_JZ, OP_JMP, OP_PUSH:
		return true
	}
	return false
}

// Size returns the encoded instruction size in bytes.
func (op Op) Size() int {
	if op.HasOperand() {
		return 2
	}
	return 1
}

// EncodeSigned converts an integer to its 8-bit two's-complement form.
// Values outside [-128,127] fail with ErrByteRange.
func EncodeSigned(n int) (b byte, err error) {
	if n < -128 || n > 127 {
		err = ErrByteRange(n)
		return
	}
	b = byte(n & 0xFF)
	return
}

// DecodeSigned sign-extends an 8-bit two's-complement operand byte.
func DecodeSigned(b byte) int {
	return int(int8(b))
}
