package planner

import "fmt"

// NonConvergentError reports that the HT region-split solver exhausted its
// iteration cap for a given move; the caller still gets a best-effort
// decomposition and may choose to ignore this.
type NonConvergentError struct {
	MoveID string
}

func (e *NonConvergentError) Error() string {
	return fmt.Sprintf("planner: HT split did not converge for move %s", e.MoveID)
}

// ErrIterationNonConvergent constructs a NonConvergentError for moveID.
func ErrIterationNonConvergent(moveID string) error {
	return &NonConvergentError{MoveID: moveID}
}

// ZeroLengthError reports that an ingress call produced a move shorter
// than MinLineLength.
type ZeroLengthError struct {
	Op string
}

func (e *ZeroLengthError) Error() string {
	return fmt.Sprintf("planner: %s move shorter than MinLineLength", e.Op)
}

// ErrZeroLengthMove constructs a ZeroLengthError for the given ingress op.
func ErrZeroLengthMove(op string) error {
	return &ZeroLengthError{Op: op}
}

// BufferFullError reports that ingress needed more free ring slots than
// were available.
type BufferFullError struct {
	Op       string
	Needed   int
	Capacity int
}

func (e *BufferFullError) Error() string {
	return fmt.Sprintf("planner: %s needs %d free buffers (capacity %d)", e.Op, e.Needed, e.Capacity)
}

// ErrBufferFull constructs a BufferFullError.
func ErrBufferFull(op string, needed, capacity int) error {
	return &BufferFullError{Op: op, Needed: needed, Capacity: capacity}
}
