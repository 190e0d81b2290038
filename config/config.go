// Package config handles TOML run configurations for Intcode programs.
package config

import (
	"errors"
	"iter"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/intcode/circuit"
	"github.com/ezrec/intcode/intcode"
	"github.com/ezrec/intcode/internal"
)

const (
	IO_MODE_DECIMAL = "decimal" // Comma or whitespace separated integers.
	IO_MODE_ASCII   = "ascii"   // One value per byte.

	CIRCUIT_MODE_SERIES   = "series"   // Each stage runs to completion in turn.
	CIRCUIT_MODE_FEEDBACK = "feedback" // The last stage feeds the first.
)

// Config represents a TOML run configuration.
type Config struct {
	Source  Program `toml:"program"`
	Machine Machine `toml:"machine"`
	Circuit Circuit `toml:"circuit"`
	IO      IO      `toml:"io"`

	// Dir is the directory containing the configuration file (set at load time).
	Dir string `toml:"-"`

	inject map[int64]int64
}

// Program locates the program to run.
type Program struct {
	File     string            `toml:"file"`     // Program file, relative to the configuration.
	Source   string            `toml:"source"`   // Inline program text.
	Assembly bool              `toml:"assembly"` // If set, the program is assembler text.
	Defines  map[string]string `toml:"defines"`  // Assembler predefines.
}

// Machine configures the machine before it is started.
type Machine struct {
	Inject  map[string]int64 `toml:"inject"`  // Memory patches, address to value.
	Input   []int64          `toml:"input"`   // Values queued before the run.
	Verbose bool             `toml:"verbose"` // Verbose machine logging.
}

// Circuit configures an amplifier chain. No phases means a single machine.
type Circuit struct {
	Phases []int64 `toml:"phases"`
	Mode   string  `toml:"mode"`
	Signal int64   `toml:"signal"`
}

// IO configures the host channel.
type IO struct {
	Mode   string `toml:"mode"`
	Input  string `toml:"input"`  // Input file; empty or "-" is stdin.
	Output string `toml:"output"` // Output file; empty or "-" is stdout.
}

// Load parses a TOML configuration file.
func Load(path string) (c *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return
	}

	c, err = Parse(data, dir)

	return
}

// Parse parses TOML configuration text. Relative paths in the
// configuration are resolved against dir.
func Parse(data []byte, dir string) (c *Config, err error) {
	c = &Config{Dir: dir}

	md, err := toml.Decode(string(data), c)
	if err != nil {
		c = nil
		err = errors.Join(ErrConfigSyntax, err)
		return
	}

	undecoded := md.Undecoded()
	if len(undecoded) > 0 {
		c = nil
		err = errors.Join(ErrConfigKey, ErrKey(undecoded[0].String()))
		return
	}

	// Defaults
	if len(c.IO.Mode) == 0 {
		c.IO.Mode = IO_MODE_DECIMAL
	}
	if len(c.Circuit.Mode) == 0 {
		c.Circuit.Mode = CIRCUIT_MODE_SERIES
	}

	err = c.validate()
	if err != nil {
		c = nil
		return
	}

	return
}

func (c *Config) validate() (err error) {
	switch c.IO.Mode {
	case IO_MODE_DECIMAL, IO_MODE_ASCII:
	default:
		return errors.Join(ErrConfigMode, ErrKey("io.mode"))
	}

	switch c.Circuit.Mode {
	case CIRCUIT_MODE_SERIES, CIRCUIT_MODE_FEEDBACK:
	default:
		return errors.Join(ErrConfigMode, ErrKey("circuit.mode"))
	}

	if (len(c.Source.File) == 0) == (len(c.Source.Source) == 0) {
		return ErrConfigProgram
	}

	c.inject = make(map[int64]int64, len(c.Machine.Inject))
	for key, value := range c.Machine.Inject {
		var address int64
		address, err = strconv.ParseInt(strings.TrimSpace(key), 0, 64)
		if err != nil || address < 0 {
			return errors.Join(ErrConfigInject, ErrKey(key))
		}
		c.inject[address] = value
	}

	return
}

// Path resolves a configured path against the configuration directory.
// Empty and "-" are returned unchanged.
func (c *Config) Path(name string) string {
	if len(name) == 0 || name == "-" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(c.Dir, name)
}

// Injections iterates over the memory patches, in address order.
func (c *Config) Injections() iter.Seq2[int64, int64] {
	return internal.IterSeq2Sorted(c.inject)
}

// Program loads the configured program. Assembled programs also return
// their listing.
func (c *Config) Program() (prog intcode.Program, listing *intcode.Listing, err error) {
	text := c.Source.Source
	if len(c.Source.File) != 0 {
		var data []byte
		data, err = os.ReadFile(c.Path(c.Source.File))
		if err != nil {
			return
		}
		text = string(data)
	}

	if !c.Source.Assembly {
		prog, err = intcode.ParseProgram(text)
		return
	}

	asm := &intcode.Assembler{Verbose: c.Machine.Verbose}
	for key, value := range internal.IterSeq2Sorted(c.Source.Defines) {
		asm.Predefine(key, value)
	}

	listing, err = asm.Parse(strings.NewReader(text))
	if err != nil {
		return
	}

	prog = listing.Program()

	return
}

// Boot creates a machine for the program, patched and with its input
// queued.
func (c *Config) Boot(prog intcode.Program) (m *intcode.Machine, err error) {
	m = intcode.NewMachine(prog)
	m.Verbose = c.Machine.Verbose

	for address, value := range c.Injections() {
		if c.Machine.Verbose {
			log.Printf("config: inject [%d] = %d", address, value)
		}
		err = m.Inject(address, value)
		if err != nil {
			m = nil
			return
		}
	}

	m.ExtendInput(c.Machine.Input...)

	return
}

// NewCircuit creates the configured circuit, or nil if no phases are set.
func (c *Config) NewCircuit(prog intcode.Program) (chain *circuit.Circuit) {
	if len(c.Circuit.Phases) == 0 {
		return
	}

	chain = circuit.NewCircuit(prog, c.Circuit.Phases...)
	chain.Verbose = c.Machine.Verbose
	chain.Reboot()

	return
}

// RunCircuit runs the configured circuit with the configured signal.
func (c *Config) RunCircuit(chain *circuit.Circuit) (output int64, err error) {
	switch c.Circuit.Mode {
	case CIRCUIT_MODE_FEEDBACK:
		output, err = chain.Feedback(c.Circuit.Signal)
	default:
		output, err = chain.Series(c.Circuit.Signal)
	}

	return
}
