package cpu

import (
	"iter"
	"maps"
	"slices"
)

// Entry records the source line and encoded location of one instruction.
type Entry struct {
	LineNo int      // Source line number.
	Pc     int      // Byte offset of the opcode.
	Words  []string // Normalized source words.
	Size   int      // Encoded size in bytes (1 or 2).
}

// Program is an assembled code image with its label table and listing.
// Immutable once assembled.
type Program struct {
	Code    []byte
	Labels  map[string]int
	Entries []Entry
}

// Debug locates a program counter within the listing.
type Debug struct {
	*Entry
	Offset int // Byte offset within the entry (0 = opcode, 1 = operand).
}

// Debug finds the listing entry covering a program counter.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, entry := range prog.Entries {
		if pc >= entry.Pc && pc < entry.Pc+entry.Size {
			dbg = Debug{
				Entry:  &prog.Entries[n],
				Offset: pc - entry.Pc,
			}
			break
		}
	}

	return
}

// Bytes returns a copy of the code image.
func (prog *Program) Bytes() []byte {
	return slices.Clone(prog.Code)
}

// Size returns the code image length in bytes.
func (prog *Program) Size() int {
	return len(prog.Code)
}

// LabelTable returns a copy of the label table.
func (prog *Program) LabelTable() map[string]int {
	return maps.Clone(prog.Labels)
}

// Listing iterates the entries with their byte offsets.
func (prog *Program) Listing() iter.Seq2[int, Entry] {
	return func(yield func(pc int, entry Entry) bool) {
		for _, entry := range prog.Entries {
			if !yield(entry.Pc, entry) {
				return
			}
		}
	}
}
