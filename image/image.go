// Package image saves and restores Intcode machine snapshots as canonical
// CBOR.
package image

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/intcode/intcode"
)

// SNAPSHOT_VERSION is the snapshot format written by Marshal.
const SNAPSHOT_VERSION = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is the complete state of a machine.
type Snapshot struct {
	Version      uint    `cbor:"1,keyasint"`
	Program      []int64 `cbor:"2,keyasint"` // Image restored by a reboot.
	Memory       []int64 `cbor:"3,keyasint"`
	Ip           int64   `cbor:"4,keyasint"`
	RelativeBase int64   `cbor:"5,keyasint"`
	Input        []int64 `cbor:"6,keyasint,omitempty"`
	Output       []int64 `cbor:"7,keyasint,omitempty"`
	State        uint8   `cbor:"8,keyasint"`
	Ticks        int     `cbor:"9,keyasint"`
	Fault        string  `cbor:"10,keyasint,omitempty"`
	FaultIp      int64   `cbor:"11,keyasint,omitempty"`
}

// Capture records the state of a machine.
func Capture(m *intcode.Machine) (snap *Snapshot) {
	snap = &Snapshot{
		Version:      SNAPSHOT_VERSION,
		Program:      m.Program(),
		Memory:       slices.Clone(m.Memory.Cell),
		Ip:           m.Ip,
		RelativeBase: m.RelativeBase,
		Input:        slices.Clone(m.Input.Data),
		Output:       slices.Clone(m.Output),
		State:        uint8(m.State),
		Ticks:        m.Ticks,
	}

	if m.Fault != nil {
		snap.Fault = m.Fault.Error()
		snap.FaultIp = m.Ip
		var fault *intcode.ErrFault
		if errors.As(m.Fault, &fault) {
			snap.Fault = fault.Err.Error()
			snap.FaultIp = fault.Ip
		}
	}

	return
}

// Restore creates a machine from the snapshot.
func (snap *Snapshot) Restore() (m *intcode.Machine) {
	m = intcode.NewMachine(snap.Program)

	m.Memory.Load(snap.Memory)
	m.Ip = snap.Ip
	m.RelativeBase = snap.RelativeBase
	m.Input.Push(snap.Input...)
	m.Output = slices.Clone(snap.Output)
	m.State = intcode.RunState(snap.State)
	m.Ticks = snap.Ticks

	if len(snap.Fault) != 0 {
		m.Fault = &intcode.ErrFault{Ip: snap.FaultIp, Err: ErrRestoredFault(snap.Fault)}
	}

	return
}

// Marshal serializes a snapshot to canonical CBOR bytes.
func Marshal(snap *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(snap)
}

// Unmarshal deserializes a snapshot from CBOR bytes.
func Unmarshal(data []byte) (snap *Snapshot, err error) {
	var s Snapshot
	err = cbor.Unmarshal(data, &s)
	if err != nil {
		err = fmt.Errorf("image: unmarshal snapshot: %w", err)
		return
	}

	if s.Version != SNAPSHOT_VERSION {
		err = errors.Join(ErrSnapshotVersion, fmt.Errorf("version %d", s.Version))
		return
	}

	switch intcode.RunState(s.State) {
	case intcode.STATE_RUNNING, intcode.STATE_PAUSED, intcode.STATE_HALTED:
	default:
		err = ErrSnapshotState
		return
	}

	if s.Ip < 0 {
		err = errors.Join(ErrSnapshotState, intcode.ErrAddress(s.Ip))
		return
	}

	snap = &s

	return
}

// Save writes a snapshot of the machine.
func Save(w io.Writer, m *intcode.Machine) (err error) {
	data, err := Marshal(Capture(m))
	if err != nil {
		return
	}

	_, err = w.Write(data)

	return
}

// Load reads a snapshot, and restores the machine it holds.
func Load(r io.Reader) (m *intcode.Machine, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	snap, err := Unmarshal(data)
	if err != nil {
		return
	}

	m = snap.Restore()

	return
}
