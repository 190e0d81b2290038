package intcode

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated memory words.
type Opcode struct {
	LineNo int
	Ip     int64
	Words  []string
	Codes  []int64
	Links  []Link
}

// Link is a label reference to be resolved once all labels are known.
type Link struct {
	Index int    // Index into Codes of the word to patch.
	Label string // Label whose address is stored there.
}

// Listing is an assembled program, with source line information.
type Listing struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug locates the assembled line that covers a memory address.
func (listing *Listing) Debug(ip int64) (dbg Debug) {
	for n, op := range listing.Opcodes {
		if ip >= op.Ip && ip < op.Ip+int64(len(op.Codes)) {
			dbg = Debug{
				Opcode: &listing.Opcodes[n],
				Index:  int(ip - op.Ip),
			}
			break
		}
	}

	return
}

// Program returns the memory image of the listing.
func (listing *Listing) Program() (prog Program) {
	prog = Program{}
	for _, code := range listing.Codes() {
		prog = append(prog, code)
	}

	return
}

// Codes iterates over each memory word and its address.
func (listing *Listing) Codes() iter.Seq2[int64, int64] {
	return func(yield func(ip int64, code int64) bool) {
		for _, op := range listing.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Ip+int64(n), code) {
					return
				}
			}
		}
	}
}
