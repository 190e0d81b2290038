package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Ascii exchanges bytes with the host. Each input byte is one value.
// Output values 0 through 255 are written as a byte; other values are
// written as a line of decimal text, unless Strict is set.
type Ascii struct {
	Input  io.Reader
	Output io.Writer
	Strict bool // If set, out-of-range output values are an error.

	reader *bufio.Reader
}

var _ Channel = (*Ascii)(nil)

// Rewind restarts the input, if it can seek.
func (ac *Ascii) Rewind() {
	seeker, ok := ac.Input.(io.Seeker)
	if !ok {
		return
	}

	_, err := seeker.Seek(0, io.SeekStart)
	if err != nil {
		return
	}

	ac.reader = nil
}

// Receive returns an iterator that yields each input byte.
func (ac *Ascii) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		if ac.Input == nil {
			return
		}

		if ac.reader == nil {
			ac.reader = bufio.NewReader(ac.Input)
		}

		for {
			b, err := ac.reader.ReadByte()
			if err != nil {
				return
			}
			if !yield(int64(b)) {
				return
			}
		}
	}
}

// Send writes a value to the output.
func (ac *Ascii) Send(value int64) (err error) {
	if ac.Output == nil {
		return
	}

	if value < 0 || value > 255 {
		if ac.Strict {
			err = errors.Join(ErrAsciiInvalid, ErrNumber(fmt.Sprintf("%d", value)))
			return
		}
		_, err = fmt.Fprintf(ac.Output, "%d\n", value)
		return
	}

	_, err = ac.Output.Write([]byte{byte(value)})

	return
}
