package intcode

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrOpcodeInvalid    = errors.New(f("opcode invalid"))
	ErrModeInvalid      = errors.New(f("parameter mode invalid"))
	ErrAddressNegative  = errors.New(f("address negative"))
	ErrAddressImmediate = errors.New(f("write target in immediate mode"))
	ErrAddressRange     = errors.New(f("address beyond memory limit"))
	ErrOverflow         = errors.New(f("arithmetic overflow"))
	ErrOutputEmpty      = errors.New(f("output empty"))

	// Program text errors
	ErrProgramSyntax = errors.New(f("program syntax"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOperandExtra       = errors.New(f("excessive operands"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperandImmediate   = errors.New(f("immediate operand not writable"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode reports the instruction word that could not be decoded or executed.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %d %v", eo.Word, Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAddress reports a resolved address that cannot be accessed.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("bad address %d", int64(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrFault is a fatal machine error, tagged with the instruction pointer
// of the failing instruction.
type ErrFault struct {
	Ip  int64
	Err error
}

func (err *ErrFault) Error() string {
	return f("ip %d %v", err.Ip, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseOperand string

func (err ErrParseOperand) Error() string {
	return f("'%v' is not an operand", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
