package intcode

import (
	"fmt"
	"iter"
)

// Disassemble iterates over a program, yielding the address and assembler
// text of each instruction. Words that do not decode into a complete,
// well-formed instruction are yielded as .data.
func Disassemble(prog Program) iter.Seq2[int64, string] {
	return func(yield func(ip int64, text string) bool) {
		size := int64(len(prog))
		for ip := int64(0); ip < size; {
			code, err := DecodeCode(prog[ip])
			width := code.Width()
			if err != nil || ip+width > size || !code.writable() {
				if !yield(ip, fmt.Sprintf(".data %d", prog[ip])) {
					return
				}
				ip++
				continue
			}

			if !yield(ip, code.Format(prog[ip+1:ip+width]...)) {
				return
			}
			ip += width
		}
	}
}

// writable returns false if a write slot is in immediate mode.
func (code Code) writable() bool {
	for slot := 1; slot <= code.Op.Operands(); slot++ {
		if code.Op.Writes(slot) && code.Mode(slot) == MODE_IMMEDIATE {
			return false
		}
	}
	return true
}
