package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull  = errors.New(f("channel full"))
	ErrTapeSyntax   = errors.New(f("tape syntax"))
	ErrAsciiInvalid = errors.New(f("ascii value invalid"))
)

// ErrNumber reports a tape word that is not a decimal integer.
type ErrNumber string

func (err ErrNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
