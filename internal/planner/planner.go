// Package planner turns ingress calls (Line, Arc, Dwell, queued control
// moves) into committed ring.MoveBuffer entries, decomposes each move into
// head/body/tail regions, and re-optimizes entry/exit velocities across the
// queue as new moves arrive (backward replan). It is the producer side of
// the ring; internal/executor is the consumer.
package planner

import (
	"math"

	"github.com/google/uuid"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/kinematics"
	"github.com/ehrlich-b/motionctl/internal/logging"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

// Planner is the producer half of the ring: it validates ingress calls,
// commits buffers, and keeps entry/exit velocities globally consistent.
type Planner struct {
	buf *ring.Buffer
	cfg config.MachineConfig
	log *logging.Logger

	position [config.NumAxes]float64

	lastUnit     [config.NumAxes]float64
	lastHasMove  bool
	lastExitVel  float64
}

// New creates a Planner over the given ring using cfg for per-axis limits.
func New(buf *ring.Buffer, cfg config.MachineConfig, log *logging.Logger) *Planner {
	if log == nil {
		log = logging.Default()
	}
	return &Planner{buf: buf, cfg: cfg, log: log}
}

// Position returns the planner's idea of the current absolute target
// position (the end of the last committed move, not the executor's live
// position).
func (p *Planner) Position() [config.NumAxes]float64 { return p.position }

// CheckFree reports whether n buffers are currently free starting at the
// write cursor. Every move kind (Line, Arc, Dwell, control moves) reserves
// exactly one buffer.
func (p *Planner) CheckFree(n int) bool { return p.buf.HaveFree(n) }

// IsBusy reports whether the executor has work in flight or queued.
func (p *Planner) IsBusy() bool { return p.buf.IsBusy() }

// axisJerk returns the per-axis jerk bound of the fastest-moving axis in a
// move's unit vector, the limiting jerk for the whole move (spec.md
// section 5's per-move jerk selection).
func (p *Planner) axisJerk(unit [config.NumAxes]float64) float64 {
	limiting := math.MaxFloat64
	any := false
	for i := config.Axis(0); i < config.NumAxes; i++ {
		if unit[i] == 0 {
			continue
		}
		ax := p.cfg.Axes[i]
		if ax.Mode == config.AxisModeDisabled || ax.JerkMax <= 0 {
			continue
		}
		bound := ax.JerkMax / math.Abs(unit[i])
		if bound < limiting {
			limiting = bound
		}
		any = true
	}
	if !any {
		return 0
	}
	return limiting
}

// velocityCeiling returns the move's maximum achievable cruise velocity:
// the minimum, over every participating axis, of velocity_max/|unit|.
func (p *Planner) velocityCeiling(unit [config.NumAxes]float64) float64 {
	ceiling := math.MaxFloat64
	any := false
	for i := config.Axis(0); i < config.NumAxes; i++ {
		if unit[i] == 0 {
			continue
		}
		ax := p.cfg.Axes[i]
		if ax.Mode == config.AxisModeDisabled {
			continue
		}
		bound := ax.VelocityMax / math.Abs(unit[i])
		if bound < ceiling {
			ceiling = bound
		}
		any = true
	}
	if !any {
		return 0
	}
	return ceiling
}

// Line enqueues a straight-line move to an absolute target, clamped by feed
// rate and per-axis velocity/jerk limits. Returns the new move's ID.
func (p *Planner) Line(target [config.NumAxes]float64, feedrate float64) (string, error) {
	var delta [config.NumAxes]float64
	for i := range delta {
		delta[i] = target[i] - p.position[i]
	}
	length := kinematics.Length(p.cfg, delta)
	if length < p.cfg.MinLineLength {
		return "", ErrZeroLengthMove("LINE")
	}
	if !p.buf.HaveFree(1) {
		return "", ErrBufferFull("LINE", 1, p.buf.Capacity())
	}

	unit := kinematics.UnitVector(delta, length)

	slot := p.buf.ReserveWrite()
	id := uuid.NewString()
	slot.ID = id
	slot.Target = target
	slot.Unit = unit
	slot.Length = length
	slot.FeedrateRequested = feedrate
	slot.VelocityMax = p.velocityCeiling(unit)
	committed := p.buf.Commit(ring.MoveKindLine)

	p.log.WithMove(id).Debugf("queued line: length=%.4f feedrate=%.1f", length, feedrate)

	p.position = target
	p.lastUnit = unit
	p.lastHasMove = true

	p.replan()
	_ = committed
	return id, nil
}

// Arc enqueues a circular arc in the given plane. center is an offset from
// the move's start position (not an absolute coordinate); ccw selects
// winding direction.
// The arc's chord generation is deferred to internal/arcgen at dispatch
// time; Arc here only records the geometric parameters and the Euclidean
// chord-path length estimate used for velocity planning.
func (p *Planner) Arc(target [config.NumAxes]float64, center [2]float64, planeA, planeB config.Axis, ccw bool, turns int, feedrate float64) (string, error) {
	radius := math.Hypot(center[0], center[1])
	if radius <= 0 {
		return "", ErrZeroLengthMove("ARC")
	}

	var delta [config.NumAxes]float64
	for i := range delta {
		delta[i] = target[i] - p.position[i]
	}

	// Arc length approximation: full turns at radius plus the chord-spanned
	// sweep, used only for velocity planning; arcgen computes exact chords.
	sweep := arcSweepEstimate(delta[planeA], delta[planeB], center, ccw)
	length := radius*sweep + radius*2*math.Pi*float64(turns)
	if length < p.cfg.MinLineLength {
		return "", ErrZeroLengthMove("ARC")
	}
	if !p.buf.HaveFree(1) {
		return "", ErrBufferFull("ARC", 1, p.buf.Capacity())
	}

	unit := kinematics.UnitVector(delta, kinematics.Length(p.cfg, delta))

	slot := p.buf.ReserveWrite()
	id := uuid.NewString()
	slot.ID = id
	slot.Target = target
	slot.Unit = unit
	slot.Length = length
	slot.FeedrateRequested = feedrate
	slot.VelocityMax = p.velocityCeiling(unit)
	slot.ArcCenter = center
	slot.ArcRadius = radius
	slot.ArcCCW = ccw
	slot.ArcPlaneA = planeA
	slot.ArcPlaneB = planeB
	slot.ArcTurns = turns
	p.buf.Commit(ring.MoveKindArc)

	p.log.WithMove(id).Debugf("queued arc: radius=%.4f length=%.4f feedrate=%.1f", radius, length, feedrate)

	p.position = target
	p.lastUnit = unit
	p.lastHasMove = true

	p.replan()
	return id, nil
}

func arcSweepEstimate(dA, dB float64, center [2]float64, ccw bool) float64 {
	startAngle := math.Atan2(-center[1], -center[0])
	endAngle := math.Atan2(dB-center[1], dA-center[0])
	sweep := endAngle - startAngle
	if ccw {
		for sweep < 0 {
			sweep += 2 * math.Pi
		}
	} else {
		for sweep > 0 {
			sweep -= 2 * math.Pi
		}
		sweep = -sweep
	}
	return sweep
}

// Dwell enqueues a motionless pause of the given duration.
func (p *Planner) Dwell(seconds float64) (string, error) {
	if !p.buf.HaveFree(1) {
		return "", ErrBufferFull("DWELL", 1, p.buf.Capacity())
	}
	slot := p.buf.ReserveWrite()
	id := uuid.NewString()
	slot.ID = id
	slot.DwellSeconds = seconds
	p.buf.Commit(ring.MoveKindDwell)

	p.log.WithMove(id).Debugf("queued dwell: seconds=%.3f", seconds)
	return id, nil
}

// queuedControl enqueues a zero-motion control move (stop/start/end) that
// the executor synchronizes on in FIFO order with motion moves.
func (p *Planner) queuedControl(kind ring.MoveKind, op string) (string, error) {
	if !p.buf.HaveFree(1) {
		return "", ErrBufferFull(op, 1, p.buf.Capacity())
	}
	slot := p.buf.ReserveWrite()
	id := uuid.NewString()
	slot.ID = id
	p.buf.Commit(kind)
	p.log.WithMove(id).Debugf("queued control move: %s", op)
	return id, nil
}

// QueuedStop enqueues a synchronized program stop.
func (p *Planner) QueuedStop() (string, error) { return p.queuedControl(ring.MoveKindQueuedStop, "QUEUED_STOP") }

// QueuedStart enqueues a synchronized program start (spindle/coolant-style
// gate; motionctl itself treats it as a no-op barrier).
func (p *Planner) QueuedStart() (string, error) { return p.queuedControl(ring.MoveKindQueuedStart, "QUEUED_START") }

// QueuedEnd enqueues a synchronized program end barrier.
func (p *Planner) QueuedEnd() (string, error) { return p.queuedControl(ring.MoveKindQueuedEnd, "QUEUED_END") }

// SetPosition resets the planner's (and, once dispatched, the executor's)
// notion of absolute position without commanding motion — used after
// homing or a work-offset change.
func (p *Planner) SetPosition(target [config.NumAxes]float64) (string, error) {
	if !p.buf.HaveFree(1) {
		return "", ErrBufferFull("SET_POSITION", 1, p.buf.Capacity())
	}
	slot := p.buf.ReserveWrite()
	id := uuid.NewString()
	slot.ID = id
	slot.Target = target
	p.buf.Commit(ring.MoveKindSetPosition)

	p.position = target
	p.lastHasMove = false
	return id, nil
}
