package motionctl

import (
	"errors"

	"github.com/ehrlich-b/motionctl/internal/executor"
	"github.com/ehrlich-b/motionctl/internal/motorsink"
)

// RecordingSink is a re-export of internal/motorsink's in-memory sink,
// exposed publicly so callers embedding motionctl in their own tests don't
// need to reach into an internal package — mirroring the teacher's
// exported MockBackend.
type RecordingSink = motorsink.Recorder

// NewRecordingSink builds a RecordingSink with the given capacity (0 means
// unbounded; a positive capacity lets a test exercise Dispatch's eagain
// backpressure path deterministically).
func NewRecordingSink(capacity int) *RecordingSink { return motorsink.NewRecorder(capacity) }

// RunToIdle drains a Controller's queue by calling Dispatch until it
// returns executor.ErrIdle, returning the number of segments dispatched.
// It is a test helper: a real caller drives Dispatch from its own loop
// (interleaved with ingress and whatever else it does) rather than running
// it to exhaustion in one shot.
func RunToIdle(c *Controller, maxIterations int) (int, error) {
	dispatched := 0
	for i := 0; i < maxIterations; i++ {
		err := c.Dispatch()
		switch {
		case err == nil:
			dispatched++
		case IsIdle(err):
			return dispatched, nil
		case IsEagain(err):
			// caller-controlled backpressure: stop and let the test decide
			// whether to free capacity and retry.
			return dispatched, err
		default:
			return dispatched, err
		}
	}
	return dispatched, nil
}

// IsIdle reports whether err is the executor's "nothing queued" signal.
func IsIdle(err error) bool { return errors.Is(err, executor.ErrIdle) }

// IsEagain reports whether err is the executor's backpressure signal.
func IsEagain(err error) bool { return errors.Is(err, executor.ErrEagain) }
