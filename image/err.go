package image

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrSnapshotVersion = errors.New(f("snapshot version unsupported"))
	ErrSnapshotState   = errors.New(f("snapshot state invalid"))
)

// ErrRestoredFault is the message of a fault captured in a snapshot.
type ErrRestoredFault string

func (err ErrRestoredFault) Error() string {
	return string(err)
}
