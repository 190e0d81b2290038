package intcode

import (
	"errors"
	"fmt"
	"strings"
)

// CodeOp is an Intcode operation, the low two decimal digits of an
// instruction word.
type CodeOp int

const (
	OP_ADD  = CodeOp(1)  // add
	OP_MUL  = CodeOp(2)  // mul
	OP_IN   = CodeOp(3)  // in
	OP_OUT  = CodeOp(4)  // out
	OP_JT   = CodeOp(5)  // jt
	OP_JF   = CodeOp(6)  // jf
	OP_LT   = CodeOp(7)  // lt
	OP_EQ   = CodeOp(8)  // eq
	OP_ARB  = CodeOp(9)  // arb
	OP_HALT = CodeOp(99) // halt
)

var _op_names = map[CodeOp]string{
	OP_ADD:  "add",
	OP_MUL:  "mul",
	OP_IN:   "in",
	OP_OUT:  "out",
	OP_JT:   "jt",
	OP_JF:   "jf",
	OP_LT:   "lt",
	OP_EQ:   "eq",
	OP_ARB:  "arb",
	OP_HALT: "halt",
}

func (op CodeOp) String() string {
	name, ok := _op_names[op]
	if !ok {
		return fmt.Sprintf("CodeOp(%d)", int(op))
	}
	return name
}

// Operands returns the number of parameters the operation takes.
func (op CodeOp) Operands() int {
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return 3
	case OP_JT, OP_JF:
		return 2
	case OP_IN, OP_OUT, OP_ARB:
		return 1
	default:
		return 0
	}
}

// Writes returns true if the 1-based parameter slot is a write target.
func (op CodeOp) Writes(slot int) bool {
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return slot == 3
	case OP_IN:
		return slot == 1
	default:
		return false
	}
}

// CodeMode is a parameter addressing mode.
type CodeMode int

const (
	MODE_POSITION  = CodeMode(0) // position
	MODE_IMMEDIATE = CodeMode(1) // immediate
	MODE_RELATIVE  = CodeMode(2) // relative
)

func (mode CodeMode) String() string {
	switch mode {
	case MODE_POSITION:
		return "position"
	case MODE_IMMEDIATE:
		return "immediate"
	case MODE_RELATIVE:
		return "relative"
	default:
		return fmt.Sprintf("CodeMode(%d)", int(mode))
	}
}

// Code is a decoded instruction word.
type Code struct {
	Word  int64
	Op    CodeOp
	Modes [3]CodeMode
}

// MakeCode encodes an operation and up to three parameter modes into an
// instruction word.
func MakeCode(op CodeOp, modes ...CodeMode) (word int64) {
	word = int64(op)
	scale := int64(100)
	for _, mode := range modes {
		word += int64(mode) * scale
		scale *= 10
	}
	return
}

// DecodeCode splits an instruction word into its operation and parameter modes.
func DecodeCode(word int64) (code Code, err error) {
	code.Word = word

	if word < 0 {
		err = ErrOpcodeInvalid
		return
	}

	code.Op = CodeOp(word % 100)
	rest := word / 100
	for n := range code.Modes {
		digit := CodeMode(rest % 10)
		rest /= 10
		switch digit {
		case MODE_POSITION, MODE_IMMEDIATE, MODE_RELATIVE:
			code.Modes[n] = digit
		default:
			err = errors.Join(ErrOpcodeInvalid, ErrModeInvalid)
			return
		}
	}

	switch code.Op {
	case OP_ADD, OP_MUL, OP_IN, OP_OUT, OP_JT, OP_JF, OP_LT, OP_EQ, OP_ARB, OP_HALT:
		// valid
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// Mode returns the mode of the 1-based parameter slot.
func (code Code) Mode(slot int) CodeMode {
	return code.Modes[slot-1]
}

// Width returns the number of memory cells the instruction occupies.
func (code Code) Width() int64 {
	return int64(1 + code.Op.Operands())
}

// Operand formats a raw parameter value in assembler syntax for a slot.
func (code Code) Operand(slot int, value int64) string {
	switch code.Mode(slot) {
	case MODE_POSITION:
		return fmt.Sprintf("[%d]", value)
	case MODE_RELATIVE:
		return fmt.Sprintf("rb[%d]", value)
	default:
		return fmt.Sprintf("%d", value)
	}
}

// Format returns the assembly language representation of this instruction
// with the given raw parameters.
func (code Code) Format(params ...int64) string {
	words := []string{code.Op.String()}
	for n, param := range params {
		words = append(words, code.Operand(n+1, param))
	}
	return strings.Join(words, " ")
}

// String returns a short description of the decoded instruction.
func (code Code) String() string {
	return fmt.Sprintf("%v.%v.%v.%v", code.Op, code.Modes[0], code.Modes[1], code.Modes[2])
}
