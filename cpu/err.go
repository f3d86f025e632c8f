package cpu

import (
	"errors"

	"github.com/ezrec/ministack/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrStackEmpty = errors.New(f("stack underflow"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelEmpty      = errors.New(f("label empty"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
)

// ErrMnemonicUnknown reports an unrecognized instruction mnemonic.
type ErrMnemonicUnknown string

func (em ErrMnemonicUnknown) Error() string {
	return f("unknown mnemonic '%v'", string(em))
}

// ErrLabelMissing reports a branch to an undeclared label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrByteRange reports a branch offset or immediate outside [-128,127].
type ErrByteRange int

func (eb ErrByteRange) Error() string {
	return f("value %v outside signed byte range [-128,127]", int(eb))
}

func (eb ErrByteRange) Is(err error) (ok bool) {
	_, ok = err.(ErrByteRange)
	return
}

// ErrParseNumber reports a malformed integer literal.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression reports an invalid $() compile-time expression.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrCodeRange reports a program counter outside code memory.
type ErrCodeRange int

func (ec ErrCodeRange) Error() string {
	return f("pc %v outside code range", int(ec))
}

func (ec ErrCodeRange) Is(err error) (ok bool) {
	_, ok = err.(ErrCodeRange)
	return
}

// ErrOpcodeUnknown reports an unassigned opcode byte in code memory.
// Only reachable from hand-crafted code; the assembler never emits one.
type ErrOpcodeUnknown struct {
	Op Op
	Pc int
}

func (eo ErrOpcodeUnknown) Error() string {
	return f("bad opcode %#02x at pc %v", byte(eo.Op), eo.Pc)
}

func (eo ErrOpcodeUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcodeUnknown)
	return
}

// ErrSyntax locates an assembly error on its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrMacro locates an assembly error within a macro expansion.
type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
