package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Tape reads decimal integers separated by commas or whitespace from
// Input, and writes one decimal integer per line to Output.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
	err     error
}

var _ Channel = (*Tape)(nil)

// isSeparator returns true for the runes between tape words.
func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// scanWords is a bufio.SplitFunc for comma or whitespace separated words.
func scanWords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, width := utf8.DecodeRune(data[start:])
		if !isSeparator(r) {
			break
		}
		start += width
	}

	for n := start; n < len(data); {
		r, width := utf8.DecodeRune(data[n:])
		if isSeparator(r) {
			return n + width, data[start:n], nil
		}
		n += width
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}

	return start, nil, nil
}

// Err returns the first malformed word seen on the input, if any.
func (tc *Tape) Err() error {
	return tc.err
}

// Rewind restarts the input, if it can seek.
func (tc *Tape) Rewind() {
	seeker, ok := tc.Input.(io.Seeker)
	if !ok {
		return
	}

	_, err := seeker.Seek(0, io.SeekStart)
	if err != nil {
		return
	}

	tc.scanner = nil
	tc.err = nil
}

// Receive returns an iterator that yields the integers on the input.
// Iteration stops at the end of input, or at the first malformed word.
func (tc *Tape) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		if tc.Input == nil || tc.err != nil {
			return
		}

		if tc.scanner == nil {
			tc.scanner = bufio.NewScanner(tc.Input)
			tc.scanner.Split(scanWords)
		}

		for tc.scanner.Scan() {
			word := tc.scanner.Text()
			value, err := strconv.ParseInt(word, 10, 64)
			if err != nil {
				tc.err = errors.Join(ErrTapeSyntax, ErrNumber(word))
				return
			}
			if !yield(value) {
				return
			}
		}

		tc.err = tc.scanner.Err()
	}
}

// Send writes a value to the output as a line of decimal text.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)

	return
}
