// Package kinematics provides the stateless coordinate transforms shared
// by the planner and executor: Cartesian length/unit-vector computation
// (honoring rotary axis radius-mode) and the motor step mapping consulted
// by the executor when it converts a segment's endpoint into motor steps.
package kinematics

import (
	"math"

	"github.com/ehrlich-b/motionctl/internal/config"
)

// AxisContribution returns the per-axis contribution to a move's Euclidean
// length. Linear axes and non-radius-mode rotary axes contribute their raw
// delta; radius-mode rotary axes contribute delta (in radians) * radius,
// converting angular travel to an equivalent linear arc length.
//
// A rotary axis outside AxisModeRadius is assumed to already be expressed
// in units compatible with the other axes in the norm (the configured
// Radius field is ignored in that case; see DESIGN.md open question 3).
func AxisContribution(axis config.Axis, axisCfg config.AxisConfig, delta float64) float64 {
	if axis.IsRotary() && axisCfg.Mode == config.AxisModeRadius {
		return delta * math.Pi / 180.0 * axisCfg.Radius
	}
	return delta
}

// Length computes the Euclidean length of a multi-axis delta vector,
// applying AxisContribution per axis before taking the norm.
func Length(cfg config.MachineConfig, delta [config.NumAxes]float64) float64 {
	var sumSq float64
	for i := config.Axis(0); i < config.NumAxes; i++ {
		c := AxisContribution(i, cfg.Axes[i], delta[i])
		sumSq += c * c
	}
	return math.Sqrt(sumSq)
}

// UnitVector normalizes a delta vector by its Length, returning a
// zero vector if length is ~0.
func UnitVector(delta [config.NumAxes]float64, length float64) [config.NumAxes]float64 {
	var u [config.NumAxes]float64
	if length <= 0 {
		return u
	}
	for i := range delta {
		u[i] = delta[i] / length
	}
	return u
}

// StepsForDelta converts an axis-space delta (mm, or degrees for a
// non-radius rotary axis) into a signed motor step count using the
// motor's derived steps-per-unit and configured polarity.
func StepsForDelta(m config.MotorConfig, delta float64) int64 {
	steps := delta * m.StepsPerUnit() * m.PolaritySign()
	return int64(math.Round(steps))
}

// MotorStepsAbsolute maps an absolute axis-space target into absolute
// motor step counts for every configured motor, using the motor's axis
// mapping. Motors not mapped to any axis (AxisIndex outside
// [0, config.NumAxes)) are skipped.
func MotorStepsAbsolute(cfg config.MachineConfig, target [config.NumAxes]float64) map[int]int64 {
	out := make(map[int]int64, len(cfg.Motors))
	for i, m := range cfg.Motors {
		if m.AxisIndex < 0 || m.AxisIndex >= config.NumAxes {
			continue
		}
		out[i] = StepsForDelta(m, target[m.AxisIndex])
	}
	return out
}

// AngularJerkEstimate estimates the sharpness of a junction between two
// unit direction vectors, used to select continuous vs. exact-path vs.
// exact-stop handling at a junction (spec.md section 5):
// `sqrt(sum((u_prev_i - u_curr_i)^2)) / 2`, which for unit vectors reduces
// to `sqrt((1 - dot) / 2)`. Returns a value in [0, 1]: 0 for collinear
// continuation, 1 for a full reversal.
func AngularJerkEstimate(prevUnit, nextUnit [config.NumAxes]float64) float64 {
	var dot float64
	for i := range prevUnit {
		dot += prevUnit[i] * nextUnit[i]
	}
	if dot > 1 {
		dot = 1
	}
	if dot < -1 {
		dot = -1
	}
	return math.Sqrt((1 - dot) / 2)
}
