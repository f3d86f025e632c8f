package mem

import (
	"github.com/ezrec/ministack/translate"
)

var f = translate.From

// ErrIndexRange reports an access outside [0,Size).
type ErrIndexRange struct {
	Index int
	Size  int
}

func (err ErrIndexRange) Error() string {
	return f("data index %v outside range [0,%v)", err.Index, err.Size)
}

func (err ErrIndexRange) Is(target error) (ok bool) {
	_, ok = target.(ErrIndexRange)
	return
}

// ErrSeekRange reports a cursor move outside [0,Size].
type ErrSeekRange struct {
	Index int
	Size  int
}

func (err ErrSeekRange) Error() string {
	return f("data cursor %v outside range [0,%v]", err.Index, err.Size)
}

func (err ErrSeekRange) Is(target error) (ok bool) {
	_, ok = target.(ErrSeekRange)
	return
}
