// Package ring implements the fixed-capacity move buffer queue that sits
// between move ingress (the planner) and the segment executor. It mirrors
// the producer/consumer cursor discipline of a submission/completion ring:
// a write cursor the producer advances as it fills buffers and a run cursor
// the executor advances as it retires buffers. The buffers open to backward
// replanning are found by state (StateQueued/StatePending) between the two.
package ring

import (
	"sync/atomic"

	"github.com/ehrlich-b/motionctl/internal/config"
)

// BufferState is the lifecycle state of one MoveBuffer slot.
type BufferState int

const (
	// StateEmpty: unused, available for ReserveWrite.
	StateEmpty BufferState = iota
	// StateLoading: reserved by the producer; fields are being populated.
	StateLoading
	// StateQueued: committed by the producer, eligible for backward replan.
	StateQueued
	// StatePending: planned at least once; waiting for the run cursor and
	// still replanned on every later commit.
	StatePending
	// StateRunning: currently owned by the executor.
	StateRunning
)

func (s BufferState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateQueued:
		return "queued"
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MoveKind distinguishes the motion families a MoveBuffer can hold.
type MoveKind int

const (
	MoveKindNone MoveKind = iota
	MoveKindLine
	MoveKindArc
	MoveKindDwell
	MoveKindQueuedStop
	MoveKindQueuedStart
	MoveKindQueuedEnd
	MoveKindSetPosition
)

// ExecState tracks a buffer's position inside its own head/body/tail
// decomposition as the executor dispatches it.
type ExecState int

const (
	ExecStateNew ExecState = iota
	ExecStateRunning1
	ExecStateRunning2
	ExecStateFinalize
	ExecStateEnd
)

// Region holds the per-region (head/body/tail) kinematic parameters the
// planner computed during decomposition and backward replan.
type Region struct {
	Length   float64 // mm
	Velocity struct {
		Entry, Cruise, Exit float64 // mm/min
	}
	Jerk     float64 // mm/min^3, unsigned magnitude; 0 for a constant-velocity body
	Time     float64 // minutes
	Segments int
}

// MoveBuffer is one slot in the ring. Axis deltas are indexed by
// config.Axis; pos fields hold absolute target coordinates in mm (or
// degrees for rotary axes in non-radius mode).
type MoveBuffer struct {
	ID    string
	Kind  MoveKind
	State BufferState
	Exec  ExecState

	Target   [config.NumAxes]float64
	StartPos [config.NumAxes]float64 // absolute position at dispatch start, latched by the executor
	Unit     [config.NumAxes]float64 // unit vector of travel direction
	Length   float64                // Euclidean length in mm

	Head, Body, Tail Region

	FeedrateRequested float64
	VelocityMax       float64
	JunctionVelocity  float64 // entry velocity fixed by backward replan
	ExitVelocityLimit float64

	ArcCenter   [2]float64
	ArcRadius   float64
	ArcCCW      bool
	ArcPlaneA   config.Axis
	ArcPlaneB   config.Axis
	ArcTurns    int

	DwellSeconds float64

	SegmentsDispatched int
}

func (m *MoveBuffer) reset() {
	*m = MoveBuffer{State: StateEmpty}
}

// Buffer is the fixed-capacity ring of MoveBuffer slots shared by the
// planner (producer) and executor (consumer). All cursor arithmetic is
// modulo capacity; the three cursors never lap each other without first
// observing the intervening slots transition out of StateEmpty/StateRunning.
type Buffer struct {
	slots []MoveBuffer
	cap   int

	w int // write cursor: next slot ReserveWrite will hand out
	q int // queue cursor: never advanced or read; replan selects buffers by state
	r int // run cursor: slot currently owned by the executor

	sinkHasSpace atomic.Bool
}

// New allocates a ring with the given capacity (spec.md's DefaultRingCapacity
// if capacity <= 0).
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = config.DefaultRingCapacity
	}
	b := &Buffer{slots: make([]MoveBuffer, capacity), cap: capacity}
	b.sinkHasSpace.Store(true)
	return b
}

func (b *Buffer) next(i int) int { return (i + 1) % b.cap }
func (b *Buffer) prev(i int) int { return (i - 1 + b.cap) % b.cap }

// HaveFree reports whether n slots starting at the write cursor are all
// StateEmpty, the precondition ingress must check before reserving.
func (b *Buffer) HaveFree(n int) bool {
	if n > b.cap {
		return false
	}
	idx := b.w
	for i := 0; i < n; i++ {
		if b.slots[idx].State != StateEmpty {
			return false
		}
		idx = b.next(idx)
	}
	return true
}

// ReserveWrite hands out the slot at the write cursor for the producer to
// populate, transitioning it to StateLoading and advancing the cursor. The
// caller must have already confirmed HaveFree(1); every move kind, arcs
// included, occupies one slot.
func (b *Buffer) ReserveWrite() *MoveBuffer {
	slot := &b.slots[b.w]
	slot.reset()
	slot.State = StateLoading
	b.w = b.next(b.w)
	return slot
}

// UngetWrite reverts the most recent ReserveWrite, used when ingress
// validation rejects a move (e.g. ErrZeroLengthMove) after reserving a slot
// but before Commit.
func (b *Buffer) UngetWrite() {
	b.w = b.prev(b.w)
	b.slots[b.w].reset()
}

// Commit marks the most recently reserved slot StateQueued, making it
// visible to backward replan, and tags it with its move kind.
func (b *Buffer) Commit(kind MoveKind) *MoveBuffer {
	idx := b.prev(b.w)
	slot := &b.slots[idx]
	slot.Kind = kind
	slot.State = StateQueued
	return slot
}

// PrevOfWrite returns the buffer immediately behind the write cursor (the
// most recently committed move), or nil if the ring is empty. Backward
// replan walks backward from here.
func (b *Buffer) PrevOfWrite() *MoveBuffer {
	idx := b.prev(b.w)
	if b.slots[idx].State == StateEmpty {
		return nil
	}
	return &b.slots[idx]
}

// At returns the buffer at a ring-relative offset behind the write cursor
// (0 is the most recent commit, 1 the one before it, and so on), or nil
// once the walk reaches an empty slot or wraps past the run cursor.
func (b *Buffer) At(offsetBehindWrite int) *MoveBuffer {
	if offsetBehindWrite < 0 || offsetBehindWrite >= b.cap {
		return nil
	}
	idx := b.w
	for i := 0; i <= offsetBehindWrite; i++ {
		idx = b.prev(idx)
	}
	if b.slots[idx].State == StateEmpty {
		return nil
	}
	return &b.slots[idx]
}

// CurrentRun returns the buffer the executor currently owns, promoting the
// run cursor's slot from StatePending/StateQueued to StateRunning on first
// access, or nil if nothing is queued.
func (b *Buffer) CurrentRun() *MoveBuffer {
	slot := &b.slots[b.r]
	switch slot.State {
	case StateEmpty:
		return nil
	case StateQueued, StatePending:
		slot.State = StateRunning
		slot.Exec = ExecStateNew
	}
	return slot
}

// ReleaseRun retires the buffer at the run cursor back to StateEmpty and
// advances the cursor, freeing the slot for a future ReserveWrite.
func (b *Buffer) ReleaseRun() {
	b.slots[b.r].reset()
	b.r = b.next(b.r)
}

// QueueDepth returns the number of StateQueued/StatePending buffers
// between the run and write cursors, the moves still open to replan.
func (b *Buffer) QueueDepth() int {
	n := 0
	for idx := b.r; idx != b.w; idx = b.next(idx) {
		switch b.slots[idx].State {
		case StateQueued, StatePending:
			n++
		}
	}
	return n
}

// IsBusy reports whether the executor has a buffer in flight or any move
// is queued behind it.
func (b *Buffer) IsBusy() bool {
	return b.slots[b.r].State != StateEmpty
}

// SetSinkHasSpace records whether the downstream sink currently has room to
// accept segments, for later reads through SinkHasSpace. The executor does
// not consult this flag; it asks its sink's HasSpace directly before
// dispatching. A plain atomic, since the producer thread never touches it.
func (b *Buffer) SetSinkHasSpace(v bool) { b.sinkHasSpace.Store(v) }

// SinkHasSpace reports the last value recorded by SetSinkHasSpace.
func (b *Buffer) SinkHasSpace() bool { return b.sinkHasSpace.Load() }

// Capacity returns the ring's fixed slot count.
func (b *Buffer) Capacity() int { return b.cap }
