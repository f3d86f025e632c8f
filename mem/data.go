// Package mem implements the data memory device of the ministack system.
//
// Data memory is an ordered sequence of integers, disjoint from code memory.
// A cursor supports sequential reads (NEXT), and explicit addresses support
// random access (LOAD, STORE).
package mem

import (
	"slices"
)

// Data is a bounds-checked integer memory with a sequential read cursor.
type Data struct {
	cell   []int
	cursor int
}

// NewData creates a data memory initialized with a copy of init.
func NewData(init []int) (data *Data) {
	data = &Data{
		cell: slices.Clone(init),
	}

	return
}

// Next reads the cell under the cursor and advances the cursor.
func (data *Data) Next() (value int, err error) {
	if data.cursor < 0 || data.cursor >= len(data.cell) {
		err = ErrIndexRange{Index: data.cursor, Size: len(data.cell)}
		return
	}

	value = data.cell[data.cursor]
	data.cursor += 1

	return
}

// Seek moves the cursor. One-past-end is accepted as the exhausted
// sentinel; a Next from there fails.
func (data *Data) Seek(index int) (err error) {
	if index < 0 || index > len(data.cell) {
		err = ErrSeekRange{Index: index, Size: len(data.cell)}
		return
	}

	data.cursor = index

	return
}

// Load reads the cell at an explicit address.
func (data *Data) Load(addr int) (value int, err error) {
	if addr < 0 || addr >= len(data.cell) {
		err = ErrIndexRange{Index: addr, Size: len(data.cell)}
		return
	}

	value = data.cell[addr]

	return
}

// Store writes the cell at an explicit address.
func (data *Data) Store(addr int, value int) (err error) {
	if addr < 0 || addr >= len(data.cell) {
		err = ErrIndexRange{Index: addr, Size: len(data.cell)}
		return
	}

	data.cell[addr] = value

	return
}

// Cursor returns the current cursor position.
func (data *Data) Cursor() int {
	return data.cursor
}

// Len returns the number of cells.
func (data *Data) Len() int {
	return len(data.cell)
}

// Values returns a copy of the memory contents.
func (data *Data) Values() []int {
	return slices.Clone(data.cell)
}

// Rewind moves the cursor back to the first cell.
func (data *Data) Rewind() {
	data.cursor = 0
}
