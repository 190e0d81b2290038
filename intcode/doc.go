// Package intcode implements the Intcode computer and its assembler.
//
// A Machine executes a program stored as a flat sequence of signed integers.
// Memory is an unbounded tape that grows on demand, parameters are decoded
// in position, immediate or relative mode, and the machine cooperates with
// its host through a FIFO input queue and an append-only output log. When the
// input queue is empty the machine pauses instead of blocking, so several
// machines can be chained and driven round-robin from a single goroutine.
//
// The assembler provides a small assembly language for Intcode, supporting
// macros, labels, equates, and compile-time expression evaluation.
package intcode
