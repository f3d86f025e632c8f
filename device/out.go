// Package device implements the output port models for the ministack system.
package device

import (
	"fmt"
	"io"
)

// OutPort receives values emitted by the OUT instruction.
type OutPort interface {
	Emit(value int) error
}

// Console writes each emitted value as a "[IO] OUT = v" line.
type Console struct {
	W io.Writer
}

func (c *Console) Emit(value int) (err error) {
	_, err = fmt.Fprintf(c.W, "[IO] OUT = %v\n", value)

	return
}

// Recorder accumulates emitted values. It never fails.
type Recorder struct {
	Values []int
}

func (r *Recorder) Emit(value int) (err error) {
	r.Values = append(r.Values, value)

	return
}

var _ OutPort = (*Console)(nil)
var _ OutPort = (*Recorder)(nil)
