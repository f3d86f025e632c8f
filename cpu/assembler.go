// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// srcLine is one normalized source line: comments stripped, equates
// substituted, macros expanded. Both assembly passes walk the same
// flat srcLine list.
type srcLine struct {
	LineNo int
	Text   string
	Words  []string
}

// Assembler is a two-pass macro assembler for the ministack system.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to byte offsets.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansion int // Macro expansion counter, for '@' label prefixes.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the integer value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	v64, perr := strconv.ParseInt(word, 0, 64)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		intval, verr := asm.valueOf(str)
		if verr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(intval)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// normalize evaluates $() expressions and equates in a single line, then
// appends the line, or its macro expansion, to the flat line list.
func (asm *Assembler) normalize(line string, lineno int, out *[]srcLine) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	// Check for equates next
	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// Macro invocation
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion += 1
		prefix := fmt.Sprintf("%v_%v_", name, asm.expansion)

		for n, mline := range macro.Lines {
			mlineno := macro.LineNo + n

			mline = strings.ReplaceAll(mline, "@", prefix)
			err = asm.normalize(mline, mlineno, out)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: mlineno, Err: err}
				return
			}
		}

		return
	}

	*out = append(*out, srcLine{LineNo: lineno, Text: strings.Join(words, " "), Words: words})

	return
}

// scan reads the input stream into the flat normalized line list.
func (asm *Assembler) scan(input io.Reader) (lines []srcLine, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			lines = nil
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.expansion = 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		// Everything from the first ';' or '#' onward is a comment.
		if cut := strings.IndexAny(text, ";#"); cut >= 0 {
			text = text[:cut]
		}
		line = strings.TrimSpace(text)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		err = asm.normalize(line, lineno, &lines)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	return
}

// syntaxError locates a pass error on its source line.
func syntaxError(ln srcLine, cause error) error {
	return &ErrSyntax{LineNo: ln.LineNo, Line: ln.Text, Err: cause}
}

// collectLabels is pass 1: a running byte cursor assigns each label the
// offset of the first instruction after its declaration.
func collectLabels(lines []srcLine) (labels map[string]int, err error) {
	defer func() {
		if err != nil {
			labels = nil
		}
	}()

	labels = make(map[string]int, 16)

	pc := 0
	for _, ln := range lines {
		if strings.HasSuffix(ln.Text, ":") {
			label := strings.TrimSpace(strings.TrimSuffix(ln.Text, ":"))
			if len(label) == 0 {
				err = syntaxError(ln, ErrLabelEmpty)
				return
			}
			_, ok := labels[label]
			if ok {
				err = syntaxError(ln, ErrLabelDuplicate)
				return
			}
			labels[label] = pc
			continue
		}

		op, ok := Lookup(ln.Words[0])
		if !ok {
			err = syntaxError(ln, ErrMnemonicUnknown(ln.Words[0]))
			return
		}
		pc += op.Size()
	}

	return
}

// emitCode is pass 2: instructions are encoded with branch offsets
// resolved against the label table.
func emitCode(lines []srcLine, labels map[string]int) (code []byte, entries []Entry, err error) {
	defer func() {
		if err != nil {
			code = nil
			entries = nil
		}
	}()

	pc := 0
	for _, ln := range lines {
		if strings.HasSuffix(ln.Text, ":") {
			continue
		}

		op, ok := Lookup(ln.Words[0])
		if !ok {
			err = syntaxError(ln, ErrMnemonicUnknown(ln.Words[0]))
			return
		}

		switch op {
		case OP_JZ, OP_JMP:
			if len(ln.Words) < 2 {
				err = syntaxError(ln, ErrOperandMissing)
				return
			}
			if len(ln.Words) > 2 {
				err = syntaxError(ln, ErrOperandExtra)
				return
			}
			target, ok := labels[ln.Words[1]]
			if !ok {
				err = syntaxError(ln, ErrLabelMissing(ln.Words[1]))
				return
			}
			// Offset is measured from the address after the full 2-byte
			// instruction, where the program counter sits at run time.
			var off byte
			off, err = EncodeSigned(target - (pc + 2))
			if err != nil {
				err = syntaxError(ln, err)
				return
			}
			code = append(code, byte(op), off)

		case OP_PUSH:
			if len(ln.Words) < 2 {
				err = syntaxError(ln, ErrOperandMissing)
				return
			}
			if len(ln.Words) > 2 {
				err = syntaxError(ln, ErrOperandExtra)
				return
			}
			imm, aerr := strconv.Atoi(ln.Words[1])
			if aerr != nil {
				err = syntaxError(ln, ErrParseNumber(ln.Words[1]))
				return
			}
			var b byte
			b, err = EncodeSigned(imm)
			if err != nil {
				err = syntaxError(ln, err)
				return
			}
			code = append(code, byte(op), b)

		default:
			if len(ln.Words) > 1 {
				err = syntaxError(ln, ErrOperandExtra)
				return
			}
			code = append(code, byte(op))
		}

		entries = append(entries, Entry{LineNo: ln.LineNo, Pc: pc, Words: ln.Words, Size: op.Size()})
		pc += op.Size()
	}

	return
}

// Parse assembles an input stream into a Program.
// Output is all-or-nothing: any error yields a nil Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	lines, err := asm.scan(input)
	if err != nil {
		return
	}

	labels, err := collectLabels(lines)
	if err != nil {
		return
	}
	asm.Label = labels

	code, entries, err := emitCode(lines, labels)
	if err != nil {
		return
	}

	prog = &Program{
		Code:    code,
		Labels:  maps.Clone(labels),
		Entries: entries,
	}

	return
}

// Assemble assembles source text into a Program.
func (asm *Assembler) Assemble(src string) (prog *Program, err error) {
	return asm.Parse(strings.NewReader(src))
}
