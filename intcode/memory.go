package intcode

import (
	"errors"
	"math"
	"slices"
)

// MEMORY_LIMIT is the first address that can never be materialized.
const MEMORY_LIMIT = int64(math.MaxInt32)

// Memory is the Intcode tape: a zero-initialized, non-negatively addressed
// store that grows on demand and never shrinks.
type Memory struct {
	Cell []int64
}

// Load replaces the memory contents with a copy of the program.
func (mem *Memory) Load(program Program) {
	mem.Cell = slices.Clone([]int64(program))
	if mem.Cell == nil {
		mem.Cell = []int64{}
	}
}

// Len returns the number of materialized cells.
func (mem *Memory) Len() int {
	return len(mem.Cell)
}

// Grow zero-fills the memory up to and including address.
func (mem *Memory) Grow(address int64) (err error) {
	if address < 0 {
		err = errors.Join(ErrAddress(address), ErrAddressNegative)
		return
	}

	if address >= MEMORY_LIMIT {
		err = errors.Join(ErrAddress(address), ErrAddressRange)
		return
	}

	if need := int(address) + 1; need > len(mem.Cell) {
		mem.Cell = append(mem.Cell, make([]int64, need-len(mem.Cell))...)
	}

	return
}

// Read returns the value at address, growing memory if needed.
func (mem *Memory) Read(address int64) (value int64, err error) {
	err = mem.Grow(address)
	if err != nil {
		return
	}

	value = mem.Cell[address]
	return
}

// Write stores value at address, growing memory if needed.
func (mem *Memory) Write(address int64, value int64) (err error) {
	err = mem.Grow(address)
	if err != nil {
		return
	}

	mem.Cell[address] = value
	return
}

// Clone returns an independent copy of the memory.
func (mem *Memory) Clone() Memory {
	return Memory{Cell: slices.Clone(mem.Cell)}
}
