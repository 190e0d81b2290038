package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAscii_Receive(t *testing.T) {
	assert := assert.New(t)

	ascii := &Ascii{Input: strings.NewReader("Hi\n")}

	value, ok := ReceiveOne(ascii)
	assert.True(ok)
	assert.Equal(int64('H'), value)

	assert.Equal([]int64{'i', '\n'}, ReceiveAll(ascii))

	ascii.Rewind()
	assert.Equal([]int64{'H', 'i', '\n'}, ReceiveAll(ascii))
}

func TestAscii_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	ascii := &Ascii{Output: output}

	assert.NoError(SendAll(ascii, 'o', 'k', '\n', 19349722))
	assert.Equal("ok\n19349722\n", output.String())

	output.Reset()
	ascii.Strict = true
	assert.NoError(ascii.Send(255))
	err := ascii.Send(256)
	assert.ErrorIs(err, ErrAsciiInvalid)
	err = ascii.Send(-1)
	assert.ErrorIs(err, ErrAsciiInvalid)
	assert.Equal([]byte{255}, output.Bytes())
}
