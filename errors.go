// Package motionctl provides a jerk-limited motion planner and trajectory
// executor for a 3-6 axis Cartesian machine.
package motionctl

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/ehrlich-b/motionctl/internal/planner"
)

// Error represents a structured motionctl error with planner/executor
// context attached.
type Error struct {
	Op     string  // operation that failed (e.g. "LINE", "ARC", "DISPATCH")
	MoveID string  // correlation id of the move involved, if any
	Region string  // region kind involved (head/body/tail/arc/dwell), if any
	Code   ErrCode // high-level error category
	Msg    string  // human-readable message
	Inner  error   // wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.MoveID != "" {
		parts = append(parts, fmt.Sprintf("move=%s", e.MoveID))
	}
	if e.Region != "" {
		parts = append(parts, fmt.Sprintf("region=%s", e.Region))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("motionctl: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("motionctl: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support for ErrCode-only comparisons.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if sc, ok := target.(sentinelCode); ok {
		return e.Code == ErrCode(sc)
	}
	if te, ok := target.(*Error); ok {
		return e.Code == te.Code
	}
	return false
}

// ErrCode represents the high-level error categories of spec.md section 7.
type ErrCode string

const (
	// ErrCodeZeroLengthMove is returned from ingress when a requested line
	// or arc is shorter than MIN_LINE_LENGTH. Recoverable; the caller may
	// ignore it.
	ErrCodeZeroLengthMove ErrCode = "zero-length-move"

	// ErrCodeBufferFull is returned when ingress could not reserve the
	// buffers it needs despite a prior CheckFree. This indicates a
	// protocol bug in the caller and is treated as fatal.
	ErrCodeBufferFull ErrCode = "buffer-full"

	// ErrCodeIterationNonConvergent marks the HT region-split solver
	// failing to converge within its iteration cap; the move keeps its
	// best-effort head/tail split, rescaled to the move's length.
	ErrCodeIterationNonConvergent ErrCode = "iteration-non-convergent"

	// ErrCodeRegionTooShort marks a decomposed region with zero
	// executable segments; it is folded into the next region silently.
	ErrCodeRegionTooShort ErrCode = "region-too-short"
)

// sentinelCode lets a bare ErrCode value be used as an errors.Is target
// without constructing a full *Error.
type sentinelCode ErrCode

func (s sentinelCode) Error() string { return string(s) }

// Sentinel errors usable directly with errors.Is(err, motionctl.ErrZeroLengthMove).
var (
	ErrZeroLengthMove        error = sentinelCode(ErrCodeZeroLengthMove)
	ErrBufferFull            error = sentinelCode(ErrCodeBufferFull)
	ErrIterationNonConvergent error = sentinelCode(ErrCodeIterationNonConvergent)
	ErrRegionTooShort        error = sentinelCode(ErrCodeRegionTooShort)
)

// NewError creates a new structured error.
func NewError(op string, code ErrCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewMoveError creates a new structured error scoped to a specific move.
func NewMoveError(op, moveID string, code ErrCode, msg string) *Error {
	return &Error{Op: op, MoveID: moveID, Code: code, Msg: msg}
}

// NewRegionError creates a new structured error scoped to a move's region.
func NewRegionError(op, moveID, region string, code ErrCode, msg string) *Error {
	return &Error{Op: op, MoveID: moveID, Region: region, Code: code, Msg: msg}
}

// NewFatalError creates a structured error for the BufferFullFatal path,
// attaching a stack trace since these indicate a caller protocol bug that
// is worth debugging from wherever it surfaces.
func NewFatalError(op string, msg string) *Error {
	return &Error{
		Op:    op,
		Code:  ErrCodeBufferFull,
		Msg:   msg,
		Inner: pkgerrors.New(msg),
	}
}

// WrapError wraps an existing error with motionctl context, preserving an
// already-structured error's code and mapping the planner's typed errors to
// their ErrCode. Any other error gets ErrCodeIterationNonConvergent (this
// module has no syscalls to map errno from).
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if me, ok := inner.(*Error); ok {
		return &Error{Op: op, MoveID: me.MoveID, Region: me.Region, Code: me.Code, Msg: me.Msg, Inner: me.Inner}
	}
	var (
		zl *planner.ZeroLengthError
		bf *planner.BufferFullError
	)
	switch {
	case errors.As(inner, &zl):
		return &Error{Op: op, Code: ErrCodeZeroLengthMove, Msg: inner.Error(), Inner: inner}
	case errors.As(inner, &bf):
		return &Error{Op: op, Code: ErrCodeBufferFull, Msg: inner.Error(), Inner: inner}
	}
	return &Error{Op: op, Code: ErrCodeIterationNonConvergent, Msg: inner.Error(), Inner: inner}
}

// IsCode checks if an error matches a specific error code.
func IsCode(err error, code ErrCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	if sc, ok := err.(sentinelCode); ok {
		return ErrCode(sc) == code
	}
	return false
}
