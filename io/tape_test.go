package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_Receive(t *testing.T) {
	table := map[string]struct {
		input  string
		values []int64
	}{
		"empty":    {"", nil},
		"blank":    {" \n\t ", nil},
		"single":   {"42", []int64{42}},
		"commas":   {"1,2,-3", []int64{1, 2, -3}},
		"lines":    {"1\n2\n3\n", []int64{1, 2, 3}},
		"mixed":    {" 1, 2 ,3\n\n4,,5 ", []int64{1, 2, 3, 4, 5}},
		"extremes": {"9223372036854775807,-9223372036854775808", []int64{9223372036854775807, -9223372036854775808}},
	}

	for name, test := range table {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			tape := &Tape{Input: strings.NewReader(test.input)}
			values := ReceiveAll(tape)
			assert.Equal(test.values, values)
			assert.NoError(tape.Err())
		})
	}
}

func TestTape_Receive_Invalid(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1,2,x,4")}
	values := ReceiveAll(tape)
	assert.Equal([]int64{1, 2}, values)
	assert.ErrorIs(tape.Err(), ErrTapeSyntax)
	assert.ErrorIs(tape.Err(), ErrNumber("x"))

	// Sticky until rewound.
	assert.Nil(ReceiveAll(tape))

	tape.Rewind()
	assert.NoError(tape.Err())
	value, ok := ReceiveOne(tape)
	assert.True(ok)
	assert.Equal(int64(1), value)
}

func TestTape_Receive_EarlyStop(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("10 20 30")}

	value, ok := ReceiveOne(tape)
	assert.True(ok)
	assert.Equal(int64(10), value)

	value, ok = ReceiveOne(tape)
	assert.True(ok)
	assert.Equal(int64(20), value)

	assert.Equal([]int64{30}, ReceiveAll(tape))

	_, ok = ReceiveOne(tape)
	assert.False(ok)
}

func TestTape_NoInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	_, ok := ReceiveOne(tape)
	assert.False(ok)
	assert.NoError(tape.Send(5))
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	assert.NoError(SendAll(tape, 1, -2, 1219070632396864))
	assert.Equal("1\n-2\n1219070632396864\n", output.String())
}
