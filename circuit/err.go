package circuit

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrStalled  = errors.New(f("circuit stalled"))
	ErrNoStages = errors.New(f("circuit has no stages"))
	ErrNoOutput = errors.New(f("stage produced no output"))
)

// ErrStage reports the failing stage of a circuit.
type ErrStage struct {
	Index int
	Err   error
}

func (err *ErrStage) Error() string {
	return f("stage %d %v", err.Index, err.Err)
}

func (err *ErrStage) Unwrap() error {
	return err.Err
}
