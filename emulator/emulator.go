// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a single Intcode machine against a host I/O
// channel.
package emulator

import (
	"errors"
	"log"

	"github.com/ezrec/intcode/intcode"
	"github.com/ezrec/intcode/io"
)

// Emulator state. Machine + host channel + optional source listing.
type Emulator struct {
	Verbose          bool             // If set, enables verbose logging.
	*intcode.Machine                  // Reference to the machine simulation.
	Listing          *intcode.Listing // Source listing of the program, if assembled.
	Channel          io.Channel       // Host I/O channel.

	sent int // Count of output values already sent to the channel.
}

// NewEmulator creates a new emulator for a program.
func NewEmulator(program intcode.Program, channel io.Channel) (emu *Emulator) {
	return NewEmulatorMachine(intcode.NewMachine(program), channel)
}

// NewEmulatorMachine creates a new emulator for an existing machine.
// Output the machine has already produced is not sent to the channel.
func NewEmulatorMachine(m *intcode.Machine, channel io.Channel) (emu *Emulator) {
	emu = &Emulator{
		Verbose: m.Verbose,
		Machine: m,
		Channel: channel,
		sent:    len(m.Output),
	}

	return
}

// NewEmulatorListing creates a new emulator for an assembled listing.
func NewEmulatorListing(listing *intcode.Listing, channel io.Channel) (emu *Emulator) {
	emu = NewEmulator(listing.Program(), channel)
	emu.Listing = listing

	return
}

// Reset reboots the machine with its program, and rewinds the channel.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reboot(emu.Machine.Program())
	emu.sent = 0

	if emu.Channel != nil {
		emu.Channel.Rewind()
	}
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	return emu.lineAt(emu.Ip)
}

// lineAt returns the source line number for an address, or 0 if there is
// no listing or no line covers it.
func (emu *Emulator) lineAt(ip int64) int {
	if emu.Listing == nil {
		return 0
	}

	dbg := emu.Listing.Debug(ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Flush sends any new output values to the channel.
func (emu *Emulator) Flush() (err error) {
	for emu.sent < len(emu.Output) {
		if emu.Channel != nil {
			err = emu.Channel.Send(emu.Output[emu.sent])
			if err != nil {
				return
			}
		}
		emu.sent++
	}

	return
}

// Tick runs the machine until it pauses or halts, sends its new output to
// the channel, and, if it paused for input, receives one value from the
// channel.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	defer func() {
		if err != nil && emu.Listing != nil {
			ip := emu.Ip
			var fault *intcode.ErrFault
			if errors.As(err, &fault) {
				ip = fault.Ip
			}
			err = &ErrRuntime{LineNo: emu.lineAt(ip), Err: err}
		}
	}()

	err = emu.Machine.Resume()

	// Output produced before a fault is still delivered.
	flush := emu.Flush()
	if err == nil {
		err = flush
	}
	if err != nil {
		return
	}

	switch emu.State {
	case intcode.STATE_HALTED:
		done = true
		return
	case intcode.STATE_PAUSED:
		if emu.Channel == nil {
			err = ErrInputExhausted
			return
		}
		value, ok := io.ReceiveOne(emu.Channel)
		if !ok {
			err = ErrInputExhausted
			if failed, ok := emu.Channel.(interface{ Err() error }); ok && failed.Err() != nil {
				err = errors.Join(err, failed.Err())
			}
			return
		}
		if emu.Verbose {
			log.Printf("emulator: input %d", value)
		}
		emu.ExtendInput(value)
	}

	return
}

// Run ticks the emulator until the machine halts.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
