package circuit

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/intcode"
)

func TestSeries(t *testing.T) {
	table := map[string]struct {
		program intcode.Program
		phases  []int64
		output  int64
	}{
		"43210": {
			program: intcode.Program{3, 15, 3, 16, 1002, 16, 10, 16, 1, 16, 15, 15, 4, 15, 99, 0, 0},
			phases:  []int64{4, 3, 2, 1, 0},
			output:  43210,
		},
		"54321": {
			program: intcode.Program{3, 23, 3, 24, 1002, 24, 10, 24, 1002, 23, -1, 23,
				101, 5, 23, 23, 1, 24, 23, 23, 4, 23, 99, 0, 0},
			phases: []int64{0, 1, 2, 3, 4},
			output: 54321,
		},
		"65210": {
			program: intcode.Program{3, 31, 3, 32, 1002, 32, 10, 32, 1001, 31, -2, 31, 1007, 31, 0, 33,
				1002, 33, 7, 33, 1, 33, 31, 31, 1, 32, 31, 31, 4, 31, 99, 0, 0, 0},
			phases: []int64{1, 0, 4, 3, 2},
			output: 65210,
		},
	}

	for name, test := range table {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			c := NewCircuit(test.program, test.phases...)
			assert.Equal(test.phases, c.Phases())
			assert.Equal(len(test.phases), len(c.Stage))

			output, err := c.Series(0)
			assert.NoError(err)
			assert.Equal(test.output, output)

			c.Reboot()
			output, err = c.Series(0)
			assert.NoError(err)
			assert.Equal(test.output, output)
		})
	}
}

func TestFeedback(t *testing.T) {
	table := map[string]struct {
		program intcode.Program
		phases  []int64
		output  int64
	}{
		"139629729": {
			program: intcode.Program{3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26,
				27, 4, 27, 1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5},
			phases: []int64{9, 8, 7, 6, 5},
			output: 139629729,
		},
		"18216": {
			program: intcode.Program{3, 52, 1001, 52, -5, 52, 3, 53, 1, 52, 56, 54, 1007, 54, 5, 55, 1005, 55, 26, 1001, 54,
				-5, 54, 1105, 1, 12, 1, 53, 54, 53, 1008, 54, 0, 55, 1001, 55, 1, 55, 2, 53, 55, 53, 4,
				53, 1001, 56, -1, 56, 1005, 56, 6, 99, 0, 0, 0, 0, 10},
			phases: []int64{9, 7, 8, 5, 6},
			output: 18216,
		},
	}

	for name, test := range table {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			c := NewCircuit(test.program, test.phases...)

			output, err := c.Feedback(0)
			assert.NoError(err)
			assert.Equal(test.output, output)
			for _, stage := range c.Stage {
				assert.False(stage.IsRunning())
			}

			c.Reboot()
			for _, stage := range c.Stage {
				assert.True(stage.IsRunning())
			}
			output, err = c.Feedback(0)
			assert.NoError(err)
			assert.Equal(test.output, output)
		})
	}
}

func TestFeedbackSeriesProgram(t *testing.T) {
	assert := assert.New(t)

	// A series program halts after one pass, so the loop ends at once.
	program := intcode.Program{3, 15, 3, 16, 1002, 16, 10, 16, 1, 16, 15, 15, 4, 15, 99, 0, 0}
	c := NewCircuit(program, 4, 3, 2, 1, 0)

	output, err := c.Feedback(0)
	assert.NoError(err)
	assert.Equal(int64(43210), output)
}

func TestCircuitErrors(t *testing.T) {
	assert := assert.New(t)

	c := NewCircuit(intcode.Program{99})
	_, err := c.Series(0)
	assert.ErrorIs(err, ErrNoStages)
	_, err = c.Feedback(0)
	assert.ErrorIs(err, ErrNoStages)

	// Halts without output.
	c = NewCircuit(intcode.Program{3, 0, 99}, 1, 2)
	_, err = c.Series(0)
	assert.ErrorIs(err, ErrNoOutput)
	var stage *ErrStage
	if assert.ErrorAs(err, &stage) {
		assert.Equal(0, stage.Index)
	}

	// Faults in the second stage.
	c = NewCircuit(intcode.Program{3, 13, 1005, 13, 9, 104, 7, 99, 0, 0, 0, 0, 0, 0}, 0, 1)
	_, err = c.Series(0)
	assert.ErrorIs(err, intcode.ErrOpcodeInvalid)
	if assert.ErrorAs(err, &stage) {
		assert.Equal(1, stage.Index)
	}
}

func TestFeedbackStalled(t *testing.T) {
	assert := assert.New(t)

	// Every stage reads three inputs before producing anything.
	program := intcode.Program{3, 11, 3, 11, 3, 11, 4, 11, 99, 0, 0, 0}
	c := NewCircuit(program, 1, 2)

	_, err := c.Feedback(0)
	assert.ErrorIs(err, ErrStalled)
	assert.Equal(intcode.STATE_PAUSED, c.Stage[0].State)
	assert.Equal(intcode.STATE_PAUSED, c.Stage[1].State)
}

func TestCircuitVerbose(t *testing.T) {
	var buffer bytes.Buffer
	log.SetOutput(&buffer)
	defer log.SetOutput(os.Stderr)

	program := intcode.Program{3, 12, 3, 13, 1, 12, 13, 12, 4, 12, 99, 0, 0, 0}

	for _, mode := range []string{"series", "feedback"} {
		t.Run(mode, func(t *testing.T) {
			assert := assert.New(t)

			buffer.Reset()

			// Verbosity set after construction still reaches the stages.
			c := NewCircuit(program, 1, 2)
			c.Verbose = true

			var output int64
			var err error
			if mode == "series" {
				output, err = c.Series(0)
			} else {
				output, err = c.Feedback(0)
			}
			assert.NoError(err)
			assert.Equal(int64(3), output)

			for n, stage := range c.Stage {
				assert.True(stage.Verbose, n)
			}
			assert.Contains(buffer.String(), "intcode: ")
			assert.Contains(buffer.String(), "circuit: ")
		})
	}
}
