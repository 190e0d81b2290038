package intcode

import (
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
)

// RunState is the cooperative scheduling state of a machine.
type RunState int

const (
	STATE_RUNNING = RunState(0) // running
	STATE_PAUSED  = RunState(1) // paused
	STATE_HALTED  = RunState(2) // halted
)

func (rs RunState) String() string {
	switch rs {
	case STATE_RUNNING:
		return "running"
	case STATE_PAUSED:
		return "paused"
	case STATE_HALTED:
		return "halted"
	default:
		return fmt.Sprintf("RunState(%d)", int(rs))
	}
}

// Machine is the simulation context of an Intcode computer.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Ip           int64    // Current instruction pointer.
	RelativeBase int64    // Base for relative mode parameters.
	Memory       Memory   // Program and data tape.
	Input        Queue    // Input queue, consumed by OP_IN.
	Output       []int64  // Output log, appended by OP_OUT.
	State        RunState // Current run state.
	Fault        error    // Sticky fault; the State is left as it was.

	Ticks int // Instructions executed since the last reboot.

	program Program // Image restored by Reboot.
}

// NewMachine creates a new machine booted with a copy of the program.
func NewMachine(program Program) (m *Machine) {
	m = &Machine{}
	m.Reboot(program)

	return
}

// Reboot the machine.
// - Replaces memory with a fresh copy of the program.
// - Zeros the instruction pointer and relative base.
// - Empties the input queue and output log.
// - Clears any fault, and sets the state to running.
func (m *Machine) Reboot(program Program) {
	if m.Verbose {
		log.Printf("intcode: reboot, %d words", len(program))
	}

	m.program = program.Clone()
	m.Memory.Load(program)
	m.Ip = 0
	m.RelativeBase = 0
	m.Input.Reset()
	m.Output = nil
	m.State = STATE_RUNNING
	m.Fault = nil
	m.Ticks = 0
}

// Program returns a copy of the image the machine was last booted with.
func (m *Machine) Program() Program {
	return m.program.Clone()
}

// Clone returns an independent copy of the machine, so that alternate
// continuations can be explored without disturbing the original.
func (m *Machine) Clone() (clone *Machine) {
	clone = &Machine{
		Verbose:      m.Verbose,
		Ip:           m.Ip,
		RelativeBase: m.RelativeBase,
		Memory:       m.Memory.Clone(),
		Input:        Queue{Data: slices.Clone(m.Input.Data)},
		Output:       slices.Clone(m.Output),
		State:        m.State,
		Fault:        m.Fault,
		Ticks:        m.Ticks,
		program:      m.program,
	}

	return
}

// IsRunning returns true until the machine halts.
// A faulted machine still reports running; check Fault, or the error
// returned by Tick or Run.
func (m *Machine) IsRunning() bool {
	return m.State != STATE_HALTED
}

// Pause suspends a running machine. The run loop returns to the caller
// after the current instruction.
func (m *Machine) Pause() {
	if m.State == STATE_RUNNING {
		m.State = STATE_PAUSED
	}
}

// Resume continues a paused machine, retrying the blocked input
// instruction. Resuming a halted machine does nothing.
func (m *Machine) Resume() (err error) {
	if m.State == STATE_HALTED {
		return
	}

	m.State = STATE_RUNNING

	return m.Run()
}

// Run executes instructions until the machine pauses, halts, or faults.
func (m *Machine) Run() (err error) {
	for m.State == STATE_RUNNING {
		err = m.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single instruction cycle.
func (m *Machine) Tick() (err error) {
	if m.Fault != nil {
		err = m.Fault
		return
	}

	if m.State != STATE_RUNNING {
		return
	}

	ip := m.Ip
	defer func() {
		if err != nil {
			err = &ErrFault{Ip: ip, Err: err}
			m.Fault = err
			if m.Verbose {
				log.Printf("intcode: %v", err)
			}
		}
	}()

	code, err := m.Fetch()
	if err != nil {
		return
	}

	err = m.Execute(code)

	return
}

// Fetch reads and decodes the instruction at the instruction pointer.
func (m *Machine) Fetch() (code Code, err error) {
	word, err := m.Memory.Read(m.Ip)
	if err != nil {
		return
	}

	code, err = DecodeCode(word)
	if err != nil {
		err = errors.Join(ErrOpcode(code), err)
		return
	}

	return
}

// Execute executes a single decoded instruction.
func (m *Machine) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if m.Verbose {
		log.Printf("intcode: %04d: %v", m.Ip, m.describe(code))
	}

	next_ip := m.Ip + code.Width()

	switch code.Op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b, dst, value int64
		a, err = m.resolveValue(code, 1)
		if err != nil {
			return
		}
		b, err = m.resolveValue(code, 2)
		if err != nil {
			return
		}
		dst, err = m.resolveWrite(code, 3)
		if err != nil {
			return
		}
		switch code.Op {
		case OP_ADD:
			value, err = checkedAdd(a, b)
		case OP_MUL:
			value, err = checkedMul(a, b)
		case OP_LT:
			if a < b {
				value = 1
			}
		case OP_EQ:
			if a == b {
				value = 1
			}
		}
		if err != nil {
			return
		}
		err = m.Memory.Write(dst, value)
	case OP_IN:
		var dst int64
		dst, err = m.resolveWrite(code, 1)
		if err != nil {
			return
		}
		value, ok := m.Input.Pop()
		if !ok {
			// Blocked on input: retry this instruction on resume.
			if m.Verbose {
				log.Printf("intcode: %04d: paused on input", m.Ip)
			}
			m.Pause()
			return
		}
		err = m.Memory.Write(dst, value)
	case OP_OUT:
		var value int64
		value, err = m.resolveValue(code, 1)
		if err != nil {
			return
		}
		m.Output = append(m.Output, value)
	case OP_JT, OP_JF:
		var cond, target int64
		cond, err = m.resolveValue(code, 1)
		if err != nil {
			return
		}
		target, err = m.resolveValue(code, 2)
		if err != nil {
			return
		}
		if (cond != 0) == (code.Op == OP_JT) {
			if target < 0 {
				err = errors.Join(ErrAddress(target), ErrAddressNegative)
				return
			}
			next_ip = target
		}
	case OP_ARB:
		var value int64
		value, err = m.resolveValue(code, 1)
		if err != nil {
			return
		}
		m.RelativeBase, err = checkedAdd(m.RelativeBase, value)
	case OP_HALT:
		m.State = STATE_HALTED
		next_ip = m.Ip
	default:
		err = ErrOpcodeInvalid
	}

	if err != nil {
		return
	}

	m.Ip = next_ip
	m.Ticks++

	return
}

// resolveAddress turns the 1-based parameter slot of the current
// instruction into a memory address.
func (m *Machine) resolveAddress(code Code, slot int) (address int64, err error) {
	param := m.Ip + int64(slot)

	switch code.Mode(slot) {
	case MODE_POSITION:
		address, err = m.Memory.Read(param)
	case MODE_IMMEDIATE:
		address = param
	case MODE_RELATIVE:
		var offset int64
		offset, err = m.Memory.Read(param)
		if err != nil {
			return
		}
		address, err = checkedAdd(m.RelativeBase, offset)
	default:
		err = ErrModeInvalid
	}

	if err == nil && address < 0 {
		err = errors.Join(ErrAddress(address), ErrAddressNegative)
	}

	return
}

// resolveValue reads the value of a parameter slot.
func (m *Machine) resolveValue(code Code, slot int) (value int64, err error) {
	address, err := m.resolveAddress(code, slot)
	if err != nil {
		return
	}

	return m.Memory.Read(address)
}

// resolveWrite resolves the destination of a write. Write targets are
// never immediate.
func (m *Machine) resolveWrite(code Code, slot int) (address int64, err error) {
	if code.Mode(slot) == MODE_IMMEDIATE {
		err = errors.Join(ErrAddress(m.Ip+int64(slot)), ErrAddressImmediate)
		return
	}

	return m.resolveAddress(code, slot)
}

// describe formats the instruction at the instruction pointer with its raw
// parameters, for verbose logging.
func (m *Machine) describe(code Code) string {
	params := make([]int64, code.Op.Operands())
	for n := range params {
		address := m.Ip + int64(n) + 1
		if int(address) < m.Memory.Len() {
			params[n] = m.Memory.Cell[address]
		}
	}
	return code.Format(params...)
}

// Inject writes a value directly into memory.
func (m *Machine) Inject(address int64, value int64) (err error) {
	return m.Memory.Write(address, value)
}

// Read returns the value stored in memory at address.
func (m *Machine) Read(address int64) (value int64, err error) {
	return m.Memory.Read(address)
}

// ExtendInput appends values to the back of the input queue.
func (m *Machine) ExtendInput(values ...int64) {
	m.Input.Push(values...)
}

// DrainOutputInto moves the entire output log into the input queue of
// another machine, leaving the output log empty.
func (m *Machine) DrainOutputInto(other *Machine) {
	output := m.Output
	m.Output = nil
	other.Input.Push(output...)
}

// LastOutput returns the most recently produced output value.
func (m *Machine) LastOutput() (value int64, err error) {
	if len(m.Output) == 0 {
		err = ErrOutputEmpty
		return
	}

	value = m.Output[len(m.Output)-1]
	return
}

// DumpOutput returns a copy of the output log.
func (m *Machine) DumpOutput() (output []int64, err error) {
	if len(m.Output) == 0 {
		err = ErrOutputEmpty
		return
	}

	output = slices.Clone(m.Output)
	return
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	regs := []string{"state", "ip", "rb", "memory", "input", "output", "ticks"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "state":
			strval = m.State.String()
			if m.Fault != nil {
				strval += " (" + m.Fault.Error() + ")"
			}
		case "ip":
			strval = fmt.Sprintf("%d", m.Ip)
		case "rb":
			strval = fmt.Sprintf("%d", m.RelativeBase)
		case "memory":
			strval = fmt.Sprintf("%d cells", m.Memory.Len())
		case "input":
			strval = fmt.Sprintf("%v", m.Input.Data)
		case "output":
			strval = fmt.Sprintf("%v", m.Output)
		case "ticks":
			strval = fmt.Sprintf("%d", m.Ticks)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// checkedAdd adds two values, reporting ErrOverflow on wrap-around.
func checkedAdd(a, b int64) (sum int64, err error) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		err = ErrOverflow
	}
	return
}

// checkedMul multiplies two values, reporting ErrOverflow on wrap-around.
func checkedMul(a, b int64) (product int64, err error) {
	if a == 0 || b == 0 {
		return
	}

	product = a * b
	if product/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		err = ErrOverflow
	}
	return
}
