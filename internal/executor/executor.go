// Package executor implements the segment dispatch loop: the single
// consumer of the ring that turns a frozen head/body/tail decomposition
// into a stream of fixed-duration motor segments. It never blocks — when
// the downstream motor sink is full it returns ErrEagain so the caller
// (the same goroutine that also drives ingress, in the teacher's
// single-threaded cooperative model) can do other work and retry.
package executor

import (
	"errors"

	"github.com/ehrlich-b/motionctl/internal/arcgen"
	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/kinematics"
	"github.com/ehrlich-b/motionctl/internal/logging"
	"github.com/ehrlich-b/motionctl/internal/motorsink"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

// ErrEagain is returned by Dispatch when the motor sink has no room for
// another segment; the move in flight is left exactly where it was.
var ErrEagain = errors.New("executor: motor sink full")

// ErrIdle is returned by Dispatch when there is no move to run.
var ErrIdle = errors.New("executor: nothing queued")

// Executor is the sole consumer of the ring's run cursor.
type Executor struct {
	buf  *ring.Buffer
	cfg  config.MachineConfig
	sink motorsink.Sink
	log  *logging.Logger

	position [config.NumAxes]float64
	arc      *arcgen.Runner
	arcMove  string
}

// New constructs an Executor dispatching from buf into sink.
func New(buf *ring.Buffer, cfg config.MachineConfig, sink motorsink.Sink, log *logging.Logger) *Executor {
	if log == nil {
		log = logging.Default()
	}
	return &Executor{buf: buf, cfg: cfg, sink: sink, log: log}
}

// Position returns the executor's live absolute position.
func (e *Executor) Position() [config.NumAxes]float64 { return e.position }

// Dispatch advances the currently running move by exactly one segment (or
// performs a state transition that consumes no sink capacity, such as
// finalizing a completed move). It is meant to be called in a tight loop
// by the owning goroutine; ErrEagain and ErrIdle are expected, routine
// results, not failures.
func (e *Executor) Dispatch() error {
	mb := e.buf.CurrentRun()
	if mb == nil {
		return ErrIdle
	}

	if mb.Exec == ring.ExecStateNew {
		e.beginMove(mb)
	}

	switch mb.Kind {
	case ring.MoveKindDwell:
		return e.dispatchDwell(mb)
	case ring.MoveKindQueuedStop, ring.MoveKindQueuedStart, ring.MoveKindQueuedEnd, ring.MoveKindSetPosition:
		return e.dispatchControl(mb)
	default:
		return e.dispatchMotion(mb)
	}
}

func (e *Executor) beginMove(mb *ring.MoveBuffer) {
	mb.StartPos = e.position
	mb.Exec = ring.ExecStateRunning1
	if mb.Kind == ring.MoveKindArc {
		e.arc = arcgen.New(mb, e.position)
		e.arcMove = mb.ID
	}
	e.log.WithMove(mb.ID).Debugf("dispatch begin: kind=%d length=%.4f", mb.Kind, mb.Length)
}

func (e *Executor) dispatchDwell(mb *ring.MoveBuffer) error {
	if !e.sink.HasSpace() {
		return ErrEagain
	}
	steps := kinematics.MotorStepsAbsolute(e.cfg, e.position)
	micros := int64(mb.DwellSeconds * 1_000_000)
	if err := e.sink.Submit(motorsink.Segment{MoveID: mb.ID, Region: "dwell", Steps: steps, Micros: micros}); err != nil {
		return err
	}
	e.finalize(mb)
	return nil
}

func (e *Executor) dispatchControl(mb *ring.MoveBuffer) error {
	if mb.Kind == ring.MoveKindSetPosition {
		e.position = mb.Target
	}
	e.finalize(mb)
	return nil
}

// dispatchMotion emits the next segment of a Line or Arc move, selecting
// the current region (head, then body, then tail) from the cumulative
// segment index and advancing position along the path.
func (e *Executor) dispatchMotion(mb *ring.MoveBuffer) error {
	if !e.sink.HasSpace() {
		return ErrEagain
	}

	region, regionName, idxInRegion, total := currentRegion(mb)
	if region == nil {
		e.finalize(mb)
		return nil
	}

	velocity := segmentVelocity(*region, idxInRegion, total)
	segLen := region.Length / float64(total)
	lengthSoFar := lengthCompletedBefore(mb, regionName) + segLen*float64(idxInRegion+1)

	e.advancePosition(mb, lengthSoFar, segLen)
	steps := kinematics.MotorStepsAbsolute(e.cfg, e.position)

	segMicros := e.cfg.MinSegmentTimeMicros
	if segMicros <= 0 {
		segMicros = config.DefaultMinSegmentTimeMicros
	}

	if err := e.sink.Submit(motorsink.Segment{
		MoveID:   mb.ID,
		Region:   regionName,
		Index:    mb.SegmentsDispatched,
		Steps:    steps,
		Velocity: velocity,
		Micros:   segMicros,
	}); err != nil {
		return err
	}

	mb.SegmentsDispatched++
	if mb.SegmentsDispatched >= totalSegments(mb) {
		e.finalize(mb)
	} else if mb.Exec == ring.ExecStateRunning1 && mb.SegmentsDispatched >= mb.Head.Segments {
		mb.Exec = ring.ExecStateRunning2
	}
	return nil
}

// advancePosition updates e.position by one segment step: lengthSoFar is
// the cumulative path distance through the move as of this segment (used
// for the line case's absolute interpolation), segLen is this segment's
// own incremental length (used to step arcgen's resumable cursor forward).
func (e *Executor) advancePosition(mb *ring.MoveBuffer, lengthSoFar, segLen float64) {
	if mb.Kind != ring.MoveKindArc || e.arc == nil {
		frac := 0.0
		if mb.Length > 0 {
			frac = lengthSoFar / mb.Length
		}
		for i := range e.position {
			e.position[i] = mb.StartPos[i] + (mb.Target[i]-mb.StartPos[i])*frac
		}
		return
	}

	a, b, helical := e.arc.Advance(segLen)
	e.position[mb.ArcPlaneA] = a
	e.position[mb.ArcPlaneB] = b
	if axis, ok := e.arc.HelicalAxis(); ok {
		e.position[axis] = helical
	}
}

// finalize retires a completed move and releases its ring slot.
func (e *Executor) finalize(mb *ring.MoveBuffer) {
	mb.Exec = ring.ExecStateEnd
	e.log.WithMove(mb.ID).Debug("dispatch finalize")
	if mb.ID == e.arcMove {
		e.arc = nil
		e.arcMove = ""
	}
	e.buf.ReleaseRun()
}

// currentRegion returns a pointer to the region the cumulative dispatched
// count currently falls in, its name, the index within that region, and
// the region's total segment count.
func currentRegion(mb *ring.MoveBuffer) (*ring.Region, string, int, int) {
	n := mb.SegmentsDispatched
	if mb.Head.Segments > 0 && n < mb.Head.Segments {
		return &mb.Head, "head", n, mb.Head.Segments
	}
	n -= mb.Head.Segments
	if mb.Body.Segments > 0 && n < mb.Body.Segments {
		return &mb.Body, "body", n, mb.Body.Segments
	}
	n -= mb.Body.Segments
	if mb.Tail.Segments > 0 && n < mb.Tail.Segments {
		return &mb.Tail, "tail", n, mb.Tail.Segments
	}
	return nil, "", 0, 0
}

func totalSegments(mb *ring.MoveBuffer) int {
	return mb.Head.Segments + mb.Body.Segments + mb.Tail.Segments
}

func lengthCompletedBefore(mb *ring.MoveBuffer, region string) float64 {
	switch region {
	case "head":
		return 0
	case "body":
		return mb.Head.Length
	case "tail":
		return mb.Head.Length + mb.Body.Length
	default:
		return 0
	}
}

// segmentVelocity returns the midpoint-convention velocity for the given
// segment index within a region: the value halfway through that segment's
// time window, linearly interpolated between the region's entry and exit
// velocities (exact for the constant-velocity body, an approximation of
// the true S-curve for head/tail, adequate at the ~10ms segment grain the
// executor dispatches at).
func segmentVelocity(r ring.Region, idx, total int) float64 {
	if total <= 0 {
		return r.Velocity.Cruise
	}
	frac := (float64(idx) + 0.5) / float64(total)
	return r.Velocity.Entry + (r.Velocity.Exit-r.Velocity.Entry)*frac
}
