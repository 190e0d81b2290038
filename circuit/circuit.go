// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package circuit wires Intcode machines into amplifier chains.
package circuit

import (
	"log"
	"slices"

	"github.com/ezrec/intcode/intcode"
)

// Circuit is a chain of machines running the same program, each seeded
// with its own phase setting.
type Circuit struct {
	Verbose bool               // If set, logs each round, and each stage's instructions.
	Stage   []*intcode.Machine // Machines, in signal order.

	program intcode.Program
	phases  []int64
}

// NewCircuit creates one stage per phase, booted with the program.
func NewCircuit(program intcode.Program, phases ...int64) (c *Circuit) {
	c = &Circuit{
		program: program.Clone(),
		phases:  slices.Clone(phases),
	}

	c.Stage = make([]*intcode.Machine, len(phases))
	for n := range phases {
		c.Stage[n] = intcode.NewMachine(c.program)
	}

	c.Reboot()

	return
}

// Phases returns the phase settings of the stages.
func (c *Circuit) Phases() []int64 {
	return slices.Clone(c.phases)
}

// Reboot restores every stage to its booted state, re-seeded with its phase.
func (c *Circuit) Reboot() {
	for n, stage := range c.Stage {
		stage.Reboot(c.program)
		stage.ExtendInput(c.phases[n])
	}
}

// Series runs each stage to completion in turn, feeding the last output of
// one stage as the input of the next. The last output of the final stage is
// returned.
func (c *Circuit) Series(signal int64) (output int64, err error) {
	if len(c.Stage) == 0 {
		err = ErrNoStages
		return
	}

	c.verbose()

	output = signal
	for n, stage := range c.Stage {
		stage.ExtendInput(output)
		err = stage.Run()
		if err != nil {
			err = &ErrStage{Index: n, Err: err}
			return
		}
		output, err = stage.LastOutput()
		if err != nil {
			err = &ErrStage{Index: n, Err: ErrNoOutput}
			return
		}
		if c.Verbose {
			log.Printf("circuit: stage %d: %v => %v", n, stage.State, output)
		}
	}

	return
}

// Feedback runs the stages as a loop, the output of the final stage
// feeding back to the first, until the final stage halts. Each round
// drains every stage's output into its successor, then resumes every
// stage. The last output of the final stage is returned.
func (c *Circuit) Feedback(signal int64) (output int64, err error) {
	if len(c.Stage) == 0 {
		err = ErrNoStages
		return
	}

	c.verbose()

	first := c.Stage[0]
	last := c.Stage[len(c.Stage)-1]

	first.ExtendInput(signal)

	for round := 0; last.IsRunning(); round++ {
		moved := false

		// Drain, from the final stage back around to the first.
		for n := range c.Stage {
			prev := c.Stage[(n+len(c.Stage)-1)%len(c.Stage)]
			if len(prev.Output) > 0 {
				moved = true
			}
			prev.DrainOutputInto(c.Stage[n])
		}

		for n, stage := range c.Stage {
			ticks := stage.Ticks
			err = stage.Resume()
			if err != nil {
				err = &ErrStage{Index: n, Err: err}
				return
			}
			if stage.Ticks != ticks {
				moved = true
			}
		}

		if c.Verbose {
			log.Printf("circuit: round %d: %v", round, c.states())
		}

		if !moved && last.IsRunning() {
			err = ErrStalled
			return
		}
	}

	output, err = last.LastOutput()
	if err != nil {
		err = &ErrStage{Index: len(c.Stage) - 1, Err: ErrNoOutput}
		return
	}

	return
}

// verbose passes the circuit's verbosity on to its stages.
func (c *Circuit) verbose() {
	for _, stage := range c.Stage {
		stage.Verbose = c.Verbose
	}
}

func (c *Circuit) states() (states []intcode.RunState) {
	states = make([]intcode.RunState, len(c.Stage))
	for n, stage := range c.Stage {
		states[n] = stage.State
	}
	return
}
