package planner

import "math"

// Jerk-limited S-curve region physics. Each region (head/body/tail) is
// modeled as a symmetric bang-bang jerk profile with no cruise-at-peak-accel
// phase: acceleration ramps linearly from 0 to a peak and back to 0 over the
// region, giving a smooth (C1) velocity transition from entry to exit
// velocity. This is the same simplified S-curve used by jerk-limited
// firmware planners (TinyG, grbl's experimental jerk branch): exact for the
// symmetric case, and good enough to drive a quantized segment executor.

// regionTime returns the minutes needed to ramp velocity from v0 to v1
// under jerk limit j (mm/min^3), or 0 if v0 == v1.
func regionTime(v0, v1, j float64) float64 {
	if j <= 0 {
		return 0
	}
	dv := math.Abs(v1 - v0)
	if dv <= 0 {
		return 0
	}
	return 2 * math.Sqrt(dv/j)
}

// regionLength returns the distance (mm) covered ramping from v0 to v1 over
// the given duration (minutes), using the trapezoidal-average velocity
// identity that holds for the symmetric S-curve profile.
func regionLength(v0, v1, t float64) float64 {
	return (v0 + v1) / 2 * t
}

// regionLengthForVelocities is regionLength computed directly from the
// velocity pair and jerk, without requiring the caller to have already
// computed regionTime.
func regionLengthForVelocities(v0, v1, j float64) float64 {
	return regionLength(v0, v1, regionTime(v0, v1, j))
}

// solveHTPeakVelocity finds the peak velocity Vp (bounded by
// [max(v0,v1), vCeil]) such that the head (v0->Vp) plus tail (Vp->v1)
// lengths sum to the target length, using Newton iteration with a
// bisection fallback. Returns (peak, iterations, converged).
func solveHTPeakVelocity(v0, v1, vCeil, jerk, targetLen float64, iterCap int) (float64, int, bool) {
	lo := math.Max(v0, v1)
	hi := vCeil
	if hi <= lo {
		return lo, 0, true
	}

	f := func(vp float64) float64 {
		return regionLengthForVelocities(v0, vp, jerk) + regionLengthForVelocities(vp, v1, jerk) - targetLen
	}

	flo := f(lo)
	fhi := f(hi)
	if flo >= 0 {
		return lo, 0, true
	}
	if fhi <= 0 {
		return hi, 0, true
	}

	vp := (lo + hi) / 2
	for i := 0; i < iterCap; i++ {
		fv := f(vp)
		if math.Abs(fv) < 1e-6 {
			return vp, i + 1, true
		}
		if fv < 0 {
			lo = vp
		} else {
			hi = vp
		}

		// Newton step using a numerical derivative; fall back to bisection
		// midpoint if the step would leave the bracket.
		const h = 1e-3
		deriv := (f(vp+h) - f(vp-h)) / (2 * h)
		next := vp
		if math.Abs(deriv) > 1e-9 {
			next = vp - fv/deriv
		}
		if next <= lo || next >= hi || math.IsNaN(next) {
			next = (lo + hi) / 2
		}
		vp = next
	}
	return vp, iterCap, false
}
