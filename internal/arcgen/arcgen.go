// Package arcgen turns an arc move's center/radius/winding parameters into
// a resumable sequence of chord endpoints. The executor calls Advance once
// per dispatched segment rather than recomputing the whole arc up front,
// mirroring the teacher's per-tag incremental state: each call advances a
// running angle cursor and returns only the next point.
package arcgen

import (
	"math"

	"github.com/ehrlich-b/motionctl/internal/config"
	"github.com/ehrlich-b/motionctl/internal/ring"
)

// Runner holds the incremental state of one arc's chord generation.
type Runner struct {
	center        [2]float64 // absolute, in the plane's coordinate system
	radius        float64
	startAngle    float64
	totalAngle    float64 // signed: positive for CCW sweep, including full turns
	planeA, planeB config.Axis
	startHelical  float64 // non-planar start value, for helical (Z-during-XY-arc) moves
	helicalDelta  float64 // target - start on the helical axis
	helicalAxis   config.Axis
	hasHelical    bool

	traveled float64 // radians swept so far
}

// New constructs a Runner for the given arc buffer, starting from the
// machine's absolute position entering the move.
func New(mb *ring.MoveBuffer, startPos [config.NumAxes]float64) *Runner {
	center := [2]float64{
		startPos[mb.ArcPlaneA] + mb.ArcCenter[0],
		startPos[mb.ArcPlaneB] + mb.ArcCenter[1],
	}
	startAngle := math.Atan2(startPos[mb.ArcPlaneB]-center[1], startPos[mb.ArcPlaneA]-center[0])
	endAngle := math.Atan2(mb.Target[mb.ArcPlaneB]-center[1], mb.Target[mb.ArcPlaneA]-center[0])

	sweep := endAngle - startAngle
	if mb.ArcCCW {
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
	} else {
		for sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	}
	total := sweep + signedTurns(mb.ArcCCW, mb.ArcTurns)

	r := &Runner{
		center:     center,
		radius:     mb.ArcRadius,
		startAngle: startAngle,
		totalAngle: total,
		planeA:     mb.ArcPlaneA,
		planeB:     mb.ArcPlaneB,
	}

	helicalAxis, delta, ok := helicalDelta(mb, startPos)
	if ok {
		r.hasHelical = true
		r.helicalAxis = helicalAxis
		r.startHelical = startPos[helicalAxis]
		r.helicalDelta = delta
	}
	return r
}

func signedTurns(ccw bool, turns int) float64 {
	if turns <= 0 {
		return 0
	}
	if ccw {
		return 2 * math.Pi * float64(turns)
	}
	return -2 * math.Pi * float64(turns)
}

// helicalDelta identifies an axis that moves linearly alongside the arc
// (e.g. Z during a helical XY arc): the single axis other than the two
// plane axes with a nonzero target delta.
func helicalDelta(mb *ring.MoveBuffer, startPos [config.NumAxes]float64) (config.Axis, float64, bool) {
	for i := config.Axis(0); i < config.NumAxes; i++ {
		if i == mb.ArcPlaneA || i == mb.ArcPlaneB {
			continue
		}
		d := mb.Target[i] - startPos[i]
		if d != 0 {
			return i, d, true
		}
	}
	return 0, 0, false
}

// TotalAngle returns the signed total angular sweep in radians.
func (r *Runner) TotalAngle() float64 { return r.totalAngle }

// Done reports whether the full sweep has been traveled.
func (r *Runner) Done() bool { return math.Abs(r.traveled) >= math.Abs(r.totalAngle) }

// Advance moves the cursor forward by the given path-length distance (mm)
// along the arc's circumference and returns the absolute plane-A/plane-B
// position at the new cursor angle, plus the helical axis's interpolated
// value at the same fraction of sweep (0 if the move has none).
func (r *Runner) Advance(distance float64) (planeA, planeB, helical float64) {
	if r.radius <= 0 {
		return r.center[0], r.center[1], r.startHelical
	}
	dAngle := distance / r.radius
	if r.totalAngle < 0 {
		dAngle = -dAngle
	}
	r.traveled += dAngle
	if math.Abs(r.traveled) > math.Abs(r.totalAngle) {
		r.traveled = r.totalAngle
	}

	angle := r.startAngle + r.traveled
	planeA = r.center[0] + r.radius*math.Cos(angle)
	planeB = r.center[1] + r.radius*math.Sin(angle)

	helical = r.startHelical
	if r.hasHelical && r.totalAngle != 0 {
		frac := r.traveled / r.totalAngle
		helical = r.startHelical + frac*r.helicalDelta
	}
	return planeA, planeB, helical
}

// HelicalAxis reports which axis (if any) interpolates linearly alongside
// the arc, and whether one is present.
func (r *Runner) HelicalAxis() (config.Axis, bool) { return r.helicalAxis, r.hasHelical }
