package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram(t *testing.T) (prog *Program) {
	t.Helper()

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"PUSH 3",   // pc 0..1
		"loop:",    //
		"DUP",      // pc 2
		"JZ out",   // pc 3..4
		"PUSH1",    // pc 5
		"SUB",      // pc 6
		"JMP loop", // pc 7..8
		"out:",     //
		"HALT",     // pc 9
	}, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Entry)
	assert.Equal(1, dbg.Entry.LineNo)
	assert.Equal(0, dbg.Offset)

	// Both bytes of a 2-byte instruction map to the same entry.
	dbg = prog.Debug(1)
	assert.NotNil(dbg.Entry)
	assert.Equal(1, dbg.Entry.LineNo)
	assert.Equal(1, dbg.Offset)

	dbg = prog.Debug(3)
	assert.Equal([]string{"JZ", "out"}, dbg.Entry.Words)

	dbg = prog.Debug(9)
	assert.Equal(9, dbg.Entry.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	dbg := prog.Debug(99)
	assert.Nil(dbg.Entry)
	assert.Equal(0, dbg.Offset)
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	bytes := prog.Bytes()
	assert.Equal(prog.Code, bytes)

	// The copy is detached from the image.
	bytes[0] = 0xEE
	assert.NotEqual(prog.Code[0], bytes[0])
}

func TestProgram_LabelTable(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	labels := prog.LabelTable()
	assert.Equal(map[string]int{"loop": 2, "out": 9}, labels)

	labels["loop"] = -1
	assert.Equal(2, prog.Labels["loop"])
}

func TestProgram_Listing(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	pcs := []int{}
	for pc, entry := range prog.Listing() {
		assert.Equal(entry.Pc, pc)
		pcs = append(pcs, pc)
	}

	assert.Equal([]int{0, 2, 3, 5, 6, 7, 9}, pcs)
}

func TestProgram_Listing_EarlyReturn(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram(t)

	count := 0
	for range prog.Listing() {
		count++
		if count == 1 {
			break
		}
	}

	assert.Equal(1, count)
}
