package io

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

const (
	// RING_DEFAULT_CAPACITY is the default capacity in values for a new ring.
	RING_DEFAULT_CAPACITY = 65536
)

// Ring is a bounded in-memory channel, with separate read and write
// positions.
type Ring struct {
	Capacity int

	ReadIndex int
	Data      []int64
}

var _ Channel = (*Ring)(nil)

// Rewind resets the ring's read position to the start.
func (ring *Ring) Rewind() {
	if ring.Capacity == 0 {
		ring.Capacity = RING_DEFAULT_CAPACITY
	}

	ring.ReadIndex = 0
}

// Reset discards all data in the ring.
func (ring *Ring) Reset() {
	ring.Data = nil
	ring.ReadIndex = 0
}

// Len is the number of unread values.
func (ring *Ring) Len() int {
	return len(ring.Data) - ring.ReadIndex
}

// Unmarshal loads ring data from a decimal text tape, replacing any
// existing data.
func (ring *Ring) Unmarshal(file io.Reader) (err error) {
	tape := &Tape{Input: file}

	var data []int64
	for value := range tape.Receive() {
		data = append(data, value)
	}

	err = tape.Err()
	if err != nil {
		return
	}

	ring.Data = data
	ring.ReadIndex = 0

	return
}

// Marshal writes the ring's data to a writer as comma separated decimal
// text.
func (ring *Ring) Marshal(file io.Writer) (err error) {
	words := make([]string, len(ring.Data))
	for n, value := range ring.Data {
		words[n] = fmt.Sprintf("%d", value)
	}

	_, err = fmt.Fprintln(file, strings.Join(words, ","))

	return
}

// Receive returns an iterator that yields values from the ring starting at
// the current read position.
func (ring *Ring) Receive() iter.Seq[int64] {
	if ring == nil {
		return func(func(int64) bool) {}
	}

	return func(yield func(value int64) bool) {
		for ring.ReadIndex < len(ring.Data) {
			value := ring.Data[ring.ReadIndex]
			ring.ReadIndex++
			if !yield(value) {
				return
			}
		}
	}
}

// Send appends a value to the ring.
// Returns ErrChannelFull if the ring has reached capacity.
func (ring *Ring) Send(value int64) (err error) {
	if ring == nil {
		err = ErrChannelFull
		return
	}

	capacity := ring.Capacity
	if capacity == 0 {
		capacity = RING_DEFAULT_CAPACITY
	}

	if len(ring.Data) >= capacity {
		err = ErrChannelFull
		return
	}

	ring.Data = append(ring.Data, value)

	return
}
