package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/intcode"
	"github.com/ezrec/intcode/io"
)

var echoDouble = []string{
	"loop: in [x]",
	"      jf [x] done",
	"      mul [x] 2 [x]",
	"      out [x]",
	"      jump loop",
	"done: halt",
	"x:    .data 0",
}

func assemble(t *testing.T, program []string) *intcode.Listing {
	asm := &intcode.Assembler{}
	listing, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return listing
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(intcode.Program{99}, nil)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.Nil(emu.Listing)
	assert.Equal(0, emu.LineNo())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorTape(t *testing.T) {
	assert := assert.New(t)

	listing := assemble(t, echoDouble)

	output := &bytes.Buffer{}
	tape := &io.Tape{Input: strings.NewReader("1, 2, 3, 0"), Output: output}
	emu := NewEmulatorListing(listing, tape)
	assert.Equal(1, emu.LineNo())

	var done bool
	var err error
	ticks := 0
	for !done {
		done, err = emu.Tick()
		assert.NoError(err)
		if err != nil {
			t.FailNow()
		}
		ticks++
	}

	// One tick per input value, plus the first run up to an input.
	assert.Equal(5, ticks)
	assert.Equal("2\n4\n6\n", output.String())
	assert.Equal([]int64{2, 4, 6}, emu.Output)
	assert.Equal(6, emu.LineNo())

	// Reset rewinds the tape.
	emu.Reset()
	assert.Equal(intcode.STATE_RUNNING, emu.State)
	assert.Nil(emu.Output)
	assert.NoError(emu.Run())
	assert.Equal("2\n4\n6\n2\n4\n6\n", output.String())
}

func TestEmulatorInputExhausted(t *testing.T) {
	assert := assert.New(t)

	listing := assemble(t, echoDouble)

	output := &bytes.Buffer{}
	tape := &io.Tape{Input: strings.NewReader("5,6"), Output: output}
	emu := NewEmulatorListing(listing, tape)

	err := emu.Run()
	assert.ErrorIs(err, ErrInputExhausted)
	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(1, runtime.LineNo)
	}
	assert.Equal("10\n12\n", output.String())
	assert.Equal(intcode.STATE_PAUSED, emu.State)

	// Malformed input is reported with the exhaustion.
	tape = &io.Tape{Input: strings.NewReader("5,six")}
	emu = NewEmulatorListing(listing, tape)
	err = emu.Run()
	assert.ErrorIs(err, ErrInputExhausted)
	assert.ErrorIs(err, io.ErrTapeSyntax)

	// No channel at all.
	emu = NewEmulator(intcode.Program{3, 0, 99}, nil)
	err = emu.Run()
	assert.ErrorIs(err, ErrInputExhausted)
	assert.NotErrorAs(err, &runtime)
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	listing := assemble(t, []string{
		"out 7",
		".data 0",
	})

	output := &bytes.Buffer{}
	emu := NewEmulatorListing(listing, &io.Tape{Output: output})

	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, intcode.ErrOpcodeInvalid)
	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(2, runtime.LineNo)
	}
	assert.Equal("7\n", output.String())
}

func TestEmulatorRing(t *testing.T) {
	assert := assert.New(t)

	ring := &io.Ring{Data: []int64{42, 17}}
	emu := NewEmulator(intcode.Program{3, 0, 4, 0, 3, 0, 4, 0, 99}, ring)

	assert.NoError(emu.Run())
	assert.Equal([]int64{42, 17, 42, 17}, ring.Data)
	assert.Equal(2, ring.Len())
}

func TestEmulatorAscii(t *testing.T) {
	assert := assert.New(t)

	// Echo up to and including a newline.
	listing := assemble(t, []string{
		"loop: in [c]",
		"      out [c]",
		"      eq [c] '\\n' [t]",
		"      jf [t] loop",
		"      halt",
		"c:    .data 0",
		"t:    .data 0",
	})

	output := &bytes.Buffer{}
	ascii := &io.Ascii{Input: strings.NewReader("hi\nthere\n"), Output: output}
	emu := NewEmulatorListing(listing, ascii)

	assert.NoError(emu.Run())
	assert.Equal("hi\n", output.String())
}

func TestEmulatorMachine(t *testing.T) {
	assert := assert.New(t)

	m := intcode.NewMachine(intcode.Program{104, 1, 3, 7, 4, 7, 99, 0})
	assert.NoError(m.Run())
	assert.Equal(intcode.STATE_PAUSED, m.State)

	ring := &io.Ring{Data: []int64{2}}
	emu := NewEmulatorMachine(m, ring)
	assert.NoError(emu.Run())

	// The output from before the emulator attached is not resent.
	assert.Equal([]int64{2, 2}, ring.Data)
	assert.Equal([]int64{1, 2}, emu.Output)
}
