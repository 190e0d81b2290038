// Package io provides host I/O channels for Intcode machines. Channels
// carry whole machine words: decimal text tapes (Tape), byte streams
// (Ascii), and bounded in-memory buffers (Ring).
package io

import (
	"iter"
)

// Channel defines the interface for all host I/O channels.
type Channel interface {
	// Rewind resets the channel to its initial state, if possible.
	Rewind()
	// Receive returns an iterator that yields values from the channel.
	// Breaking out of the iteration leaves the remaining values for the
	// next call.
	Receive() iter.Seq[int64]
	// Send writes a single value to the channel.
	Send(value int64) error
}
