package motionctl

import (
	"errors"
	"testing"
)

func TestStructuredError(t *testing.T) {
	err := NewError("LINE", ErrCodeZeroLengthMove, "move shorter than MIN_LINE_LENGTH")

	if err.Op != "LINE" {
		t.Errorf("expected Op=LINE, got %s", err.Op)
	}
	if err.Code != ErrCodeZeroLengthMove {
		t.Errorf("expected Code=ErrCodeZeroLengthMove, got %s", err.Code)
	}

	expected := "motionctl: move shorter than MIN_LINE_LENGTH (op=LINE)"
	if err.Error() != expected {
		t.Errorf("expected error message %q, got %q", expected, err.Error())
	}
}

func TestMoveError(t *testing.T) {
	err := NewMoveError("COMMIT", "m-1", ErrCodeRegionTooShort, "tail folded into body")

	if err.MoveID != "m-1" {
		t.Errorf("expected MoveID=m-1, got %s", err.MoveID)
	}
	expected := "motionctl: tail folded into body (op=COMMIT)"
	if err.Error() != expected {
		t.Errorf("expected error message %q, got %q", expected, err.Error())
	}
}

func TestRegionError(t *testing.T) {
	err := NewRegionError("REPLAN", "m-2", "tail", ErrCodeIterationNonConvergent, "HT split did not converge")

	if err.MoveID != "m-2" {
		t.Errorf("expected MoveID=m-2, got %s", err.MoveID)
	}
	if err.Region != "tail" {
		t.Errorf("expected Region=tail, got %s", err.Region)
	}
}

func TestWrapError(t *testing.T) {
	inner := errors.New("underlying failure")
	err := WrapError("DISPATCH", inner)

	if err.Code != ErrCodeIterationNonConvergent {
		t.Errorf("expected default wrap code, got %s", err.Code)
	}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to satisfy errors.Is for the inner error")
	}
}

func TestWrapPreservesStructuredCode(t *testing.T) {
	inner := NewError("LINE", ErrCodeZeroLengthMove, "too short")
	wrapped := WrapError("CONTROLLER", inner)

	if wrapped.Code != ErrCodeZeroLengthMove {
		t.Errorf("expected wrap to preserve inner code, got %s", wrapped.Code)
	}
}

func TestSentinelCompatibility(t *testing.T) {
	var legacyErr error = ErrZeroLengthMove

	structuredErr := &Error{Code: ErrCodeZeroLengthMove}
	if !errors.Is(structuredErr, legacyErr) {
		t.Error("structured error should be compatible with the sentinel error")
	}

	if legacyErr.Error() != "zero-length-move" {
		t.Errorf("expected sentinel error message, got %q", legacyErr.Error())
	}
}

func TestIsCode(t *testing.T) {
	err := NewError("ARC", ErrCodeIterationNonConvergent, "solver gave up")

	if !IsCode(err, ErrCodeIterationNonConvergent) {
		t.Error("IsCode should return true for matching code")
	}
	if IsCode(err, ErrCodeRegionTooShort) {
		t.Error("IsCode should return false for non-matching code")
	}
	if IsCode(nil, ErrCodeIterationNonConvergent) {
		t.Error("IsCode should return false for nil error")
	}
}

func TestFatalErrorHasStack(t *testing.T) {
	err := NewFatalError("LINE", "ring did not have 3 free buffers")
	if err.Code != ErrCodeBufferFull {
		t.Errorf("expected ErrCodeBufferFull, got %s", err.Code)
	}
	if err.Inner == nil {
		t.Error("expected a wrapped stack-carrying inner error")
	}
}
