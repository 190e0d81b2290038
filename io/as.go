package io

import (
	"slices"
)

// ReceiveOne reads a single value from the channel.
func ReceiveOne(ch Channel) (value int64, ok bool) {
	for value = range ch.Receive() {
		ok = true
		break
	}

	return
}

// ReceiveAll reads every remaining value from the channel.
func ReceiveAll(ch Channel) []int64 {
	return slices.Collect(ch.Receive())
}

// SendAll sends the values to the channel, in order.
func SendAll(ch Channel, values ...int64) (err error) {
	for _, value := range values {
		err = ch.Send(value)
		if err != nil {
			return
		}
	}

	return
}
