// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/image"
	"github.com/ezrec/intcode/intcode"
	"github.com/ezrec/intcode/io"
)

func openInput(name string) (file *os.File, err error) {
	if len(name) == 0 || name == "-" {
		return os.Stdin, nil
	}

	return os.Open(name)
}

func createOutput(name string) (file *os.File, err error) {
	if len(name) == 0 || name == "-" {
		return os.Stdout, nil
	}

	return os.Create(name)
}

// circuitFlags applies the amplifier flags over the configuration.
// The circuit mode is only replaced by -feedback, or when unset; a nil
// signal leaves the configured signal alone.
func circuitFlags(cfg *config.Config, phases string, feedback bool, signal *int64) (err error) {
	if len(phases) != 0 {
		var values intcode.Program
		values, err = intcode.ParseProgram(phases)
		if err != nil {
			return
		}
		cfg.Circuit.Phases = values
	}

	switch {
	case feedback:
		cfg.Circuit.Mode = config.CIRCUIT_MODE_FEEDBACK
	case len(cfg.Circuit.Mode) == 0:
		cfg.Circuit.Mode = config.CIRCUIT_MODE_SERIES
	}

	if signal != nil {
		cfg.Circuit.Signal = *signal
	}

	return
}

func main() {
	var compile string
	var program string
	var conf string
	var input string
	var output string
	var ascii bool
	var verbose bool
	var disasm bool
	var save string
	var load string
	var phases string
	var feedback bool
	var signal int64

	flag.StringVar(&compile, "c", "", "Assembler file to compile")
	flag.StringVar(&program, "p", "", "Program file, comma separated integers")
	flag.StringVar(&conf, "f", "", "TOML run configuration")
	flag.StringVar(&input, "i", "", "Input, '-' for stdin")
	flag.StringVar(&output, "o", "", "Output, '-' for stdout")
	flag.BoolVar(&ascii, "a", false, "ASCII input and output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&disasm, "d", false, "Disassemble the program, do not execute")
	flag.StringVar(&save, "s", "", "Save a snapshot of the machine when it stops")
	flag.StringVar(&load, "l", "", "Load a snapshot, and resume it")
	flag.StringVar(&phases, "phases", "", "Amplifier phases, comma separated")
	flag.BoolVar(&feedback, "feedback", false, "Run amplifiers in a feedback loop")
	flag.Int64Var(&signal, "signal", 0, "Amplifier input signal")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := &config.Config{}
	if len(conf) != 0 {
		var err error
		cfg, err = config.Load(conf)
		if err != nil {
			log.Fatalf("%v: %v", conf, err)
		}
	}

	var prog intcode.Program
	var listing *intcode.Listing

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &intcode.Assembler{Verbose: verbose}
		listing, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		prog = listing.Program()
	case len(program) != 0:
		inf, err := os.Open(program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		defer inf.Close()

		prog, err = intcode.ReadProgram(inf)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	case len(conf) != 0:
		var err error
		prog, listing, err = cfg.Program()
		if err != nil {
			log.Fatalf("%v: %v", conf, err)
		}
	case len(load) != 0:
		// Program comes from the snapshot.
	default:
		log.Fatalf("%v: One of -c, -p, -f or -l is required", os.Args[0])
	}

	if disasm {
		for ip, text := range intcode.Disassemble(prog) {
			fmt.Printf("%04d: %v\n", ip, text)
		}
		return
	}

	// Flags override the configuration.
	if verbose {
		cfg.Machine.Verbose = true
	}
	if ascii {
		cfg.IO.Mode = config.IO_MODE_ASCII
	}
	if len(input) != 0 {
		cfg.IO.Input = input
	}
	if len(output) != 0 {
		cfg.IO.Output = output
	}
	var signalSet *int64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "signal" {
			signalSet = &signal
		}
	})
	err := circuitFlags(cfg, phases, feedback, signalSet)
	if err != nil {
		log.Fatalf("-phases: %v", err)
	}

	inf, err := openInput(cfg.Path(cfg.IO.Input))
	if err != nil {
		log.Fatalf("%v: %v", cfg.IO.Input, err)
	}
	defer inf.Close()

	ouf, err := createOutput(cfg.Path(cfg.IO.Output))
	if err != nil {
		log.Fatalf("%v: %v", cfg.IO.Output, err)
	}
	defer ouf.Close()

	var channel io.Channel
	switch cfg.IO.Mode {
	case config.IO_MODE_ASCII:
		channel = &io.Ascii{Input: inf, Output: ouf}
	default:
		channel = &io.Tape{Input: inf, Output: ouf}
	}

	if chain := cfg.NewCircuit(prog); chain != nil {
		value, err := cfg.RunCircuit(chain)
		if err != nil {
			log.Fatal(err)
		}
		err = channel.Send(value)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	var m *intcode.Machine
	if len(load) != 0 {
		inf, err := os.Open(load)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		m, err = image.Load(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		m.Verbose = cfg.Machine.Verbose
	} else {
		m, err = cfg.Boot(prog)
		if err != nil {
			log.Fatal(err)
		}
	}

	emu := emulator.NewEmulatorMachine(m, channel)
	emu.Listing = listing

	err = emu.Run()
	if errors.Is(err, emulator.ErrInputExhausted) && len(save) != 0 {
		err = nil
	}

	if len(save) != 0 {
		snf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		err = image.Save(snf, emu.Machine)
		if err == nil {
			err = snf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		if verbose {
			log.Printf("%v: saved, %v at ip %d", save, emu.State, emu.Ip)
		}
	}

	if err != nil {
		log.Fatal(err)
	}
}
